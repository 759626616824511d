package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRewriteDirectBoardLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"valentine"},
			want: []string{"valentine"},
		},
		{
			name: "direct board id first token",
			in:   []string{"valentine", "brd-3f2a9c01de"},
			want: []string{"valentine", "board", "show", "brd-3f2a9c01de"},
		},
		{
			name: "direct board id after value flag",
			in:   []string{"valentine", "--dir", "./tmp-data", "brd-3f2a9c01de"},
			want: []string{"valentine", "--dir", "./tmp-data", "board", "show", "brd-3f2a9c01de"},
		},
		{
			name: "direct board id after equals flag",
			in:   []string{"valentine", "--dir=./tmp-data", "brd-3f2a9c01de"},
			want: []string{"valentine", "--dir=./tmp-data", "board", "show", "brd-3f2a9c01de"},
		},
		{
			name: "direct board id after bool flag",
			in:   []string{"valentine", "--pretty", "brd-3f2a9c01de"},
			want: []string{"valentine", "--pretty", "board", "show", "brd-3f2a9c01de"},
		},
		{
			name: "direct board id after double dash",
			in:   []string{"valentine", "--format", "yaml", "--", "brd-3f2a9c01de"},
			want: []string{"valentine", "--format", "yaml", "--", "board", "show", "brd-3f2a9c01de"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"valentine", "board", "show", "brd-3f2a9c01de"},
			want: []string{"valentine", "board", "show", "brd-3f2a9c01de"},
		},
		{
			name: "malformed board id not rewritten",
			in:   []string{"valentine", "brd-"},
			want: []string{"valentine", "brd-"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"valentine", "wat"},
			want: []string{"valentine", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectBoardLookupArgs(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("rewriteDirectBoardLookupArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
