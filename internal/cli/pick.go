package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"valentine/internal/config"
	"valentine/internal/dropdown"
	"valentine/internal/model"
	"valentine/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type pickFlags struct {
	id          string
	field       string
	options     []string
	optionsFile string
	value       string
	minChars    int
	query       string
	noRecord    bool
}

// filterResult is the output of a non-interactive pick.
type filterResult struct {
	ID        string            `json:"id" yaml:"id"`
	Query     string            `json:"query" yaml:"query"`
	Visible   []dropdown.Option `json:"visible" yaml:"visible"`
	NoResults bool              `json:"noResults" yaml:"noResults"`
	Value     string            `json:"value,omitempty" yaml:"value,omitempty"`
	Changes   []dropdown.Change `json:"changes" yaml:"changes"`
}

func newPickCmd(app *App) *cobra.Command {
	var f pickFlags

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a value from a searchable dropdown",
		Long: strings.TrimSpace(`
Runs a single searchable dropdown. Options come from a configured field
(--field), from --option value=Label flags, or from a YAML/JSON options file.

With --query the filter runs non-interactively: the visible options are
printed, and a query that leaves exactly one option commits it.

Commits are recorded as selections unless --no-record is given.
`),
		Example: strings.TrimSpace(`
  valentine pick --field country
  valentine pick --id size --option s=Small --option m=Medium --option l=Large
  valentine pick --id country --options-file countries.yaml --query "united k"
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dc, opts, err := resolvePick(app, f, cmd.Flags().Changed("min-chars"))
			if err != nil {
				return writeErr(cmd, err)
			}
			dc.Logger = app.logger()

			var changes []dropdown.Change
			var out any
			if cmd.Flags().Changed("query") {
				res := runFilter(dc, opts, f.value, f.query)
				changes = res.Changes
				out = res
			} else {
				res, err := tui.Pick(cmd.Context(), tui.PickOptions{
					Label:      dc.Placeholder,
					Config:     dc,
					Options:    opts,
					Value:      f.value,
					AutoSelect: app.cfg.AutoSelectConfig(),
					Logger:     app.logger(),
				})
				if err != nil {
					return writeErr(cmd, err)
				}
				changes = res.Changes
				out = res
			}

			if !f.noRecord && len(changes) > 0 {
				if err := recordChanges(cmd, app, changes); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, envelope(out, "valentine selections list --id "+dc.ID))
		},
	}

	cmd.Flags().StringVar(&f.id, "id", "", "Container id recorded with each commit")
	cmd.Flags().StringVar(&f.field, "field", "", "Use a field from the config (options, min chars, label)")
	cmd.Flags().StringArrayVar(&f.options, "option", nil, "Option as value=Label (repeatable)")
	cmd.Flags().StringVar(&f.optionsFile, "options-file", "", "YAML or JSON list of {value, label} options")
	cmd.Flags().StringVar(&f.value, "value", "", "Initially committed value")
	cmd.Flags().IntVar(&f.minChars, "min-chars", 0, "Query length below which every option stays visible")
	cmd.Flags().StringVar(&f.query, "query", "", "Filter non-interactively and print the result")
	cmd.Flags().BoolVar(&f.noRecord, "no-record", false, "Do not record commits as selections")
	return cmd
}

// resolvePick builds the dropdown config and option list from flags and,
// when --field is set, the matching configured field.
func resolvePick(app *App, f pickFlags, minCharsSet bool) (dropdown.Config, []dropdown.Option, error) {
	var field config.Field
	if id := strings.TrimSpace(f.field); id != "" {
		found := false
		for _, cf := range app.cfg.Fields {
			if cf.ID == id {
				field, found = cf, true
				break
			}
		}
		if !found {
			return dropdown.Config{}, nil, errNotFound("field", id)
		}
	}
	if id := strings.TrimSpace(f.id); id != "" {
		field.ID = id
	}
	if field.ID == "" {
		return dropdown.Config{}, nil, errors.New("missing --id (or --field)")
	}

	opts := append([]dropdown.Option(nil), field.Options...)
	for _, s := range f.options {
		o, err := dropdown.ParseOption(s)
		if err != nil {
			return dropdown.Config{}, nil, err
		}
		opts = append(opts, o)
	}
	if p := strings.TrimSpace(f.optionsFile); p != "" {
		fh, err := os.Open(p)
		if err != nil {
			return dropdown.Config{}, nil, err
		}
		defer fh.Close()
		more, err := dropdown.DecodeOptions(fh)
		if err != nil {
			return dropdown.Config{}, nil, fmt.Errorf("%s: %w", p, err)
		}
		opts = append(opts, more...)
	}

	dc := app.cfg.DropdownConfig(field)
	if minCharsSet {
		if f.minChars < 0 {
			return dropdown.Config{}, nil, fmt.Errorf("--min-chars must be >= 0, got %d", f.minChars)
		}
		dc.MinChars = f.minChars
	}
	if dc.Placeholder == "" {
		dc.Placeholder = field.ID
	}
	return dc, opts, nil
}

// runFilter applies query the way typing it into the input would.
func runFilter(dc dropdown.Config, opts []dropdown.Option, value, query string) filterResult {
	res := filterResult{ID: dc.ID, Query: query, Visible: []dropdown.Option{}, Changes: []dropdown.Change{}}
	dc.OnChange = func(c dropdown.Change) { res.Changes = append(res.Changes, c) }
	dc.Portaled = false
	dc.Dispatcher = nil

	d := dropdown.New(dc, opts, value)
	d.Filter(query)
	for _, i := range d.VisibleIndices() {
		res.Visible = append(res.Visible, opts[i])
	}
	res.NoResults = d.Empty()
	if v, ok := d.Value(); ok {
		res.Value = v
	}
	d.Teardown()
	return res
}

func recordChanges(cmd *cobra.Command, app *App, changes []dropdown.Change) error {
	st, err := openStore(app)
	if err != nil {
		return err
	}
	for _, c := range changes {
		sel := model.Selection{ContainerID: c.ContainerID, Value: c.Value, CommittedAt: time.Now().UTC()}
		if err := st.RecordSelection(cmd.Context(), sel); err != nil {
			return fmt.Errorf("record selection: %w", err)
		}
		app.logger().Info("selection committed", zap.String("field", c.ContainerID), zap.String("value", c.Value))
	}
	return nil
}
