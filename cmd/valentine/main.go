package main

import (
	"os"
	"strings"

	"valentine/internal/cli"
	"valentine/internal/store"
)

// rewriteDirectBoardLookupArgs rewrites `valentine [flags] <board-id> ...` to
// `valentine [flags] board show <board-id> ...`.
func rewriteDirectBoardLookupArgs(argv []string) []string {
	// Cobra treats the first non-flag token as a subcommand, so argv is
	// rewritten before parsing. Persistent flags may come first.
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without skipping a value, so a board id is
	// never consumed as a flag value.
	valueFlags := map[string]bool{
		"--dir":    true,
		"--config": true,
		"--format": true,
	}
	boolFlags := map[string]bool{
		"--pretty":  true,
		"--verbose": true,
		"-v":        true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "board", "show")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && store.IsBoardID(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			switch {
			case strings.Contains(a, "="), boolFlags[a]:
			case valueFlags[a]:
				i++
			}
			continue
		}

		// First positional token.
		if store.IsBoardID(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectBoardLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
