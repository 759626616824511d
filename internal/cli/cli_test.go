package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"valentine/internal/dropdown"
	"valentine/internal/model"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// testEnv isolates config and data dirs and returns the data dir.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("VALENTINE_CONFIG_DIR", t.TempDir())
	t.Setenv("VALENTINE_DIR", "")
	t.Setenv("VALENTINE_FORMAT", "")
	t.Setenv("VALENTINE_CONFIG", "")
	return t.TempDir()
}

// mustData runs a command that must succeed and decodes the "data" key of its
// JSON envelope into v.
func mustData(t *testing.T, v any, args ...string) {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("valentine %v: %v\nstderr:\n%s", args, err, string(stderr))
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v\nstdout:\n%s", err, string(stdout))
	}
	if len(env.Data) == 0 {
		t.Fatalf("expected data key, stdout:\n%s", string(stdout))
	}
	if v != nil {
		if err := json.Unmarshal(env.Data, v); err != nil {
			t.Fatalf("unmarshal data: %v\ndata:\n%s", err, string(env.Data))
		}
	}
}

func TestPick_QueryCommitsSingleMatchAndRecords(t *testing.T) {
	dir := testEnv(t)

	var res filterResult
	mustData(t, &res, "--dir", dir, "pick", "--id", "country",
		"--option", "us=United States", "--option", "uk=United Kingdom", "--option", "de=Germany",
		"--query", "united k")

	want := filterResult{
		ID:      "country",
		Query:   "united k",
		Visible: []dropdown.Option{{Value: "uk", Label: "United Kingdom"}},
		Value:   "uk",
		Changes: []dropdown.Change{{ContainerID: "country", Value: "uk"}},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("pick mismatch (-want +got):\n%s", diff)
	}

	var sels []model.Selection
	mustData(t, &sels, "--dir", dir, "selections", "list", "--id", "country")
	if len(sels) != 1 || sels[0].Value != "uk" {
		t.Fatalf("selections=%#v", sels)
	}

	var latest map[string]string
	mustData(t, &latest, "--dir", dir, "selections", "latest")
	if latest["country"] != "uk" {
		t.Fatalf("latest=%v", latest)
	}
}

func TestPick_QueryAlreadyCommittedDoesNotRecommit(t *testing.T) {
	dir := testEnv(t)

	var res filterResult
	mustData(t, &res, "--dir", dir, "pick", "--id", "country",
		"--option", "us=United States", "--option", "uk=United Kingdom",
		"--value", "uk", "--query", "kingdom")
	if res.Value != "uk" || len(res.Changes) != 0 {
		t.Fatalf("res=%#v", res)
	}

	var sels []model.Selection
	mustData(t, &sels, "--dir", dir, "selections", "list")
	if len(sels) != 0 {
		t.Fatalf("nothing should be recorded, got %#v", sels)
	}
}

func TestPick_ConfiguredFieldUsesMinChars(t *testing.T) {
	dir := testEnv(t)

	// The language field needs 2 characters before it filters.
	var res filterResult
	mustData(t, &res, "--dir", dir, "pick", "--field", "language", "--query", "r", "--no-record")
	if len(res.Visible) != 5 || len(res.Changes) != 0 {
		t.Fatalf("short query should keep every option visible: %#v", res)
	}

	mustData(t, &res, "--dir", dir, "pick", "--field", "language", "--query", "ru", "--no-record")
	if res.Value != "rust" || len(res.Changes) != 1 {
		t.Fatalf("res=%#v", res)
	}

	mustData(t, &res, "--dir", dir, "pick", "--field", "language", "--query", "zz", "--no-record")
	if !res.NoResults || len(res.Visible) != 0 {
		t.Fatalf("expected no results: %#v", res)
	}

	var sels []model.Selection
	mustData(t, &sels, "--dir", dir, "selections", "list")
	if len(sels) != 0 {
		t.Fatalf("--no-record should not record, got %#v", sels)
	}
}

func TestPick_OptionsFile(t *testing.T) {
	dir := testEnv(t)
	p := filepath.Join(t.TempDir(), "sizes.yaml")
	if err := os.WriteFile(p, []byte("- value: s\n  label: Small\n- value: m\n  label: Medium\n- value: l\n"), 0o644); err != nil {
		t.Fatalf("write options: %v", err)
	}

	var res filterResult
	mustData(t, &res, "--dir", dir, "pick", "--id", "size", "--options-file", p, "--query", "")
	want := []dropdown.Option{{Value: "s", Label: "Small"}, {Value: "m", Label: "Medium"}, {Value: "l", Label: "l"}}
	if diff := cmp.Diff(want, res.Visible); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}
}

func TestPick_Errors(t *testing.T) {
	dir := testEnv(t)

	_, _, err := runCLI(t, []string{"--dir", dir, "pick", "--field", "nope", "--query", "x"})
	if err == nil || !isNotFound(err) {
		t.Fatalf("expected field not found, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "pick", "--query", "x"}); err == nil {
		t.Fatalf("expected missing --id error")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "pick", "--id", "x", "--option", "=Nothing", "--query", "x"}); err == nil {
		t.Fatalf("expected bad option error")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "pick", "--id", "x", "--min-chars", "-1", "--query", "x"}); err == nil {
		t.Fatalf("expected bad --min-chars error")
	}
}

func TestBoard_CreateAddMoveReorderShow(t *testing.T) {
	dir := testEnv(t)

	var b model.Board
	mustData(t, &b, "--dir", dir, "board", "create", "--title", "Triage",
		"--column", "new=New", "--column", "open", "--column", "closed=Closed")
	if diff := cmp.Diff([]string{"new", "open", "closed"}, b.ColumnOrder()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if b.Columns[1].Label != "open" {
		t.Fatalf("bare column should use its type as label, got %q", b.Columns[1].Label)
	}

	var c1, c2 model.Card
	mustData(t, &c1, "--dir", dir, "board", "add-card", b.ID, "--title", "First")
	mustData(t, &c2, "--dir", dir, "board", "add-card", b.ID, "--column", "open", "--title", "Second")
	if c1.ColumnType != "new" || c2.ColumnType != "open" {
		t.Fatalf("cards=%#v %#v", c1, c2)
	}

	var moved model.Board
	mustData(t, &moved, "--dir", dir, "board", "move", b.ID, c1.ID, "open")
	var open []string
	for _, c := range moved.CardsIn("open") {
		open = append(open, c.ID)
	}
	if diff := cmp.Diff([]string{c2.ID, c1.ID}, open); diff != "" {
		t.Fatalf("open mismatch (-want +got):\n%s", diff)
	}

	var reordered model.Board
	mustData(t, &reordered, "--dir", dir, "board", "reorder", b.ID, "closed", "new", "open")
	if diff := cmp.Diff([]string{"closed", "new", "open"}, reordered.ColumnOrder()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	var shown model.Board
	mustData(t, &shown, "--dir", dir, "board", "show", b.ID)
	if diff := cmp.Diff(reordered.ColumnOrder(), shown.ColumnOrder()); diff != "" {
		t.Fatalf("show mismatch (-want +got):\n%s", diff)
	}

	var boards []model.Board
	mustData(t, &boards, "--dir", dir, "board", "list")
	if len(boards) != 1 || boards[0].ID != b.ID {
		t.Fatalf("boards=%#v", boards)
	}
}

func TestBoard_CreateUsesDefaultColumns(t *testing.T) {
	dir := testEnv(t)
	var b model.Board
	mustData(t, &b, "--dir", dir, "board", "create", "--title", "Defaults")
	if diff := cmp.Diff([]string{"todo", "doing", "done"}, b.ColumnOrder()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestBoard_Errors(t *testing.T) {
	dir := testEnv(t)
	var b model.Board
	mustData(t, &b, "--dir", dir, "board", "create", "--title", "B")

	_, stderr, err := runCLI(t, []string{"--dir", dir, "board", "show", "brd-0000000000"})
	if err == nil || !isNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(string(stderr), "not found") {
		t.Fatalf("stderr=%q", string(stderr))
	}
	_, _, err = runCLI(t, []string{"--dir", dir, "board", "show", "whatever"})
	if err == nil || !strings.Contains(err.Error(), "board list") {
		t.Fatalf("expected a hint for a malformed id, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "board", "move", b.ID, "crd-missing", "done"}); err == nil || !isNotFound(err) {
		t.Fatalf("expected card not found, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "board", "reorder", b.ID, "todo", "done"}); err == nil {
		t.Fatalf("partial order should fail")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "board", "add-card", b.ID}); err == nil {
		t.Fatalf("missing title should fail")
	}
}

func TestOutput_YAML(t *testing.T) {
	dir := testEnv(t)
	var b model.Board
	mustData(t, &b, "--dir", dir, "board", "create", "--title", "Yaml")

	stdout, stderr, err := runCLI(t, []string{"--dir", dir, "--format", "yaml", "board", "show", b.ID})
	if err != nil {
		t.Fatalf("board show: %v\nstderr:\n%s", err, string(stderr))
	}
	var env struct {
		Data model.Board `yaml:"data"`
	}
	if err := yaml.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal yaml: %v\n%s", err, string(stdout))
	}
	if env.Data.ID != b.ID || env.Data.Title != "Yaml" {
		t.Fatalf("data=%#v", env.Data)
	}
}

func TestExport_FileAndStdout(t *testing.T) {
	dir := testEnv(t)
	var b model.Board
	mustData(t, &b, "--dir", dir, "board", "create", "--title", "Export me")
	var c model.Card
	mustData(t, &c, "--dir", dir, "board", "add-card", b.ID, "--title", "Ship it")

	stdout, stderr, err := runCLI(t, []string{"--dir", dir, "export", b.ID, "--format", "md", "--stdout"})
	if err != nil {
		t.Fatalf("export: %v\nstderr:\n%s", err, string(stderr))
	}
	md := string(stdout)
	if !strings.HasPrefix(md, "# Export me") || !strings.Contains(md, "- Ship it") {
		t.Fatalf("markdown=\n%s", md)
	}

	var res struct {
		Written []string `json:"written"`
	}
	mustData(t, &res, "--dir", dir, "export", b.ID, "--format", "pdf", "--auto-print")
	want := filepath.Join(dir, "exports", b.ID+".pdf")
	if len(res.Written) != 1 || res.Written[0] != want {
		t.Fatalf("written=%v want %s", res.Written, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("not a pdf")
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "export", b.ID, "--format", "pdf"}); err == nil {
		t.Fatalf("expected file exists error without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "export", b.ID, "--format", "docx"}); err == nil {
		t.Fatalf("expected invalid format error")
	}
}

func TestConfig_InitAndShow(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	var res map[string]string
	mustData(t, &res, "--dir", dir, "--config", path, "config", "init")
	if res["path"] != path {
		t.Fatalf("path=%q want %q", res["path"], path)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "--config", path, "config", "init"}); err == nil {
		t.Fatalf("expected config exists error")
	}
	mustData(t, nil, "--dir", dir, "--config", path, "config", "init", "--force")

	var shown map[string]any
	mustData(t, &shown, "--dir", dir, "--config", path, "config", "show")
	if _, ok := shown["Fields"]; !ok {
		t.Fatalf("expected fields in config show: %v", shown)
	}
}

func TestParseColumn(t *testing.T) {
	tests := []struct {
		in      string
		want    model.Column
		wantErr bool
	}{
		{in: "todo=To do", want: model.Column{Type: "todo", Label: "To do"}},
		{in: " done ", want: model.Column{Type: "done", Label: "done"}},
		{in: "x=", want: model.Column{Type: "x", Label: "x"}},
		{in: "=Label", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColumn(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" && !tt.wantErr {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDocs(t *testing.T) {
	dir := testEnv(t)

	var list struct {
		Topics []string `json:"topics"`
	}
	mustData(t, &list, "--dir", dir, "docs")
	if len(list.Topics) == 0 {
		t.Fatalf("expected topics")
	}

	stdout, _, err := runCLI(t, []string{"--dir", dir, "docs", "dropdown", "--raw"})
	if err != nil || !strings.HasPrefix(string(stdout), "# Dropdowns") {
		t.Fatalf("docs dropdown --raw: err=%v out=%q", err, string(stdout))
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}
