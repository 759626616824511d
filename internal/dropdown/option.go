package dropdown

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseOption parses "value=Label". A bare "value" uses the value as its label.
func ParseOption(s string) (Option, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Option{}, errors.New("empty option")
	}
	value, label, ok := strings.Cut(s, "=")
	value = strings.TrimSpace(value)
	label = strings.TrimSpace(label)
	if value == "" {
		return Option{}, fmt.Errorf("option %q: missing value", s)
	}
	if !ok || label == "" {
		label = value
	}
	return Option{Value: value, Label: label}, nil
}

// DecodeOptions reads a YAML (or JSON) list of {value, label} options.
func DecodeOptions(r io.Reader) ([]Option, error) {
	var opts []Option
	if err := yaml.NewDecoder(r).Decode(&opts); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode options: %w", err)
	}
	for i := range opts {
		opts[i].Value = strings.TrimSpace(opts[i].Value)
		opts[i].Label = strings.TrimSpace(opts[i].Label)
		if opts[i].Value == "" {
			return nil, fmt.Errorf("option %d: missing value", i+1)
		}
		if opts[i].Label == "" {
			opts[i].Label = opts[i].Value
		}
	}
	return opts, nil
}

// IndexOfValue returns the index of the first option with value v, or -1.
func IndexOfValue(opts []Option, v string) int {
	for i, o := range opts {
		if o.Value == v {
			return i
		}
	}
	return -1
}
