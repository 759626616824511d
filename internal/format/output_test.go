package format

import (
	"bytes"
	"testing"
)

type row struct {
	ID    string `json:"id" yaml:"id"`
	Value string `json:"value" yaml:"value"`
}

func TestWrite_Formats(t *testing.T) {
	v := map[string]any{"data": []row{{ID: "country", Value: "uk"}}}
	tests := []struct {
		format string
		pretty bool
		want   string
	}{
		{format: "", want: `{"data":[{"id":"country","value":"uk"}]}` + "\n"},
		{format: "json", pretty: true, want: "{\n  \"data\": [\n    {\n      \"id\": \"country\",\n      \"value\": \"uk\"\n    }\n  ]\n}\n"},
		{format: "yaml", want: "data:\n  - id: country\n    value: uk\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Write(&buf, v, tt.format, tt.pretty); err != nil {
			t.Fatalf("Write(%q): %v", tt.format, err)
		}
		if got := buf.String(); got != tt.want {
			t.Fatalf("Write(%q) mismatch:\nwant: %q\ngot:  %q", tt.format, tt.want, got)
		}
	}
	if err := Write(&bytes.Buffer{}, v, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
