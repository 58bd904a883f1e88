package diff

import (
	"fmt"
	"strings"
)

// FileChange pairs a file path with its raw patch fragment as delivered by a
// hosting backend. The fragment may or may not carry ---/+++ file headers.
type FileChange struct {
	Path  string
	Patch string
}

// Build returns a complete unified diff for a single file. Fragments that
// start with a hunk header get synthesized --- a/<path> / +++ b/<path>
// headers prepended; fragments that already carry headers pass through
// unchanged, so Build(path, Build(path, f)) == Build(path, f).
func Build(path, fragment string) string {
	if !strings.HasPrefix(fragment, "@@") {
		return fragment
	}
	return fmt.Sprintf("--- a/%s\n+++ b/%s\n%s", path, path, fragment)
}

// BuildAll concatenates per-file diffs in input order into one multi-file
// unified diff, byte-identical to what a standard diff run would produce.
// The result feeds back into Parse and Aggregate regardless of which
// backend the fragments came from.
func BuildAll(files []FileChange) string {
	var sb strings.Builder
	for i, f := range files {
		d := Build(f.Path, f.Patch)
		if d == "" {
			continue
		}
		sb.WriteString(d)
		if i < len(files)-1 && !strings.HasSuffix(d, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
