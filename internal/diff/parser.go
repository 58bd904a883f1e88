package diff

import (
	"strconv"
	"strings"
)

// LineType represents the type of a line in a diff hunk.
type LineType int

const (
	// LineContext represents an unchanged context line (starts with ' ').
	LineContext LineType = iota
	// LineAddition represents an added line (starts with '+').
	LineAddition
	// LineDeletion represents a deleted line (starts with '-').
	LineDeletion
)

// Line represents a single line in a diff hunk.
type Line struct {
	Type    LineType // The type of change
	Content string   // The line content (without the prefix)
	NewLine *int     // Line number in new file (nil for deletions)
	Offset  int      // 0-based offset within the diff body, counted from the first line after the first @@ header
}

// Hunk represents a single @@ hunk in a unified diff.
type Hunk struct {
	OldStart int    // Starting line in old file
	OldLines int    // Number of lines from old file
	NewStart int    // Starting line in new file
	NewLines int    // Number of lines in new file
	Lines    []Line // The lines in this hunk
}

// ParsedPatch represents a parsed unified diff for a single file.
type ParsedPatch struct {
	Hunks []Hunk
}

// Parse parses a unified diff string into a ParsedPatch.
// It accepts both bare hunk sequences and full git diff output with file
// headers. Malformed input never fails; unrecognizable lines are skipped,
// so an empty or binary "patch" simply yields zero hunks.
func Parse(patch string) ParsedPatch {
	if patch == "" {
		return ParsedPatch{}
	}

	lines := strings.Split(patch, "\n")
	result := ParsedPatch{}

	var currentHunk *Hunk
	offset := -1
	currentNewLine := 0

	for _, line := range lines {
		if line == "" {
			continue
		}

		// File headers (diff --git, index, ---, +++) precede the first hunk
		if currentHunk == nil &&
			(strings.HasPrefix(line, "diff --git") ||
				strings.HasPrefix(line, "index ") ||
				strings.HasPrefix(line, "---") ||
				strings.HasPrefix(line, "+++")) {
			continue
		}

		// "\ No newline at end of file" markers
		if strings.HasPrefix(line, "\\ ") {
			continue
		}

		if strings.HasPrefix(line, "@@") {
			if currentHunk != nil {
				result.Hunks = append(result.Hunks, *currentHunk)
				// Later hunk headers are part of the diff body and
				// consume an offset slot, as review APIs count them.
				offset++
			}

			hunk, ok := parseHunkHeader(line)
			if !ok {
				currentHunk = nil
				continue
			}

			currentHunk = &hunk
			currentNewLine = hunk.NewStart
			continue
		}

		// Not inside a hunk yet
		if currentHunk == nil {
			continue
		}

		offset++
		diffLine := Line{
			Offset: offset,
		}

		switch line[0] {
		case '+':
			diffLine.Type = LineAddition
			diffLine.Content = line[1:]
			diffLine.NewLine = intPtr(currentNewLine)
			currentNewLine++
		case '-':
			diffLine.Type = LineDeletion
			diffLine.Content = line[1:]
			// Deletions have no new-side line number
		case ' ':
			diffLine.Type = LineContext
			diffLine.Content = line[1:]
			diffLine.NewLine = intPtr(currentNewLine)
			currentNewLine++
		default:
			// Treat unknown as context
			diffLine.Type = LineContext
			diffLine.Content = line
			diffLine.NewLine = intPtr(currentNewLine)
			currentNewLine++
		}

		currentHunk.Lines = append(currentHunk.Lines, diffLine)
	}

	if currentHunk != nil {
		result.Hunks = append(result.Hunks, *currentHunk)
	}

	return result
}

// FindPosition returns the diff-relative offset for a given new-side line
// number, or nil if the line is not part of the diff (unchanged file
// regions, deleted lines, or lines outside every hunk). Each invocation
// over the same input yields the same result; the commenting layer relies
// on that to re-derive positions consistently.
func (p ParsedPatch) FindPosition(newLineNumber int) *int {
	if newLineNumber <= 0 {
		return nil
	}

	for _, hunk := range p.Hunks {
		for _, line := range hunk.Lines {
			if line.NewLine != nil && *line.NewLine == newLineNumber {
				return intPtr(line.Offset)
			}
		}
	}

	return nil
}

// parseHunkHeader parses a header like "@@ -10,7 +10,8 @@ optional context".
// The ",count" part is omitted by diff when the range spans a single line.
func parseHunkHeader(line string) (Hunk, bool) {
	hunk := Hunk{}

	parts := strings.Split(line, "@@")
	if len(parts) < 2 {
		return hunk, false
	}

	seen := 0
	for _, part := range strings.Fields(strings.TrimSpace(parts[1])) {
		if strings.HasPrefix(part, "-") {
			hunk.OldStart, hunk.OldLines = parseRange(strings.TrimPrefix(part, "-"))
			seen++
		} else if strings.HasPrefix(part, "+") {
			hunk.NewStart, hunk.NewLines = parseRange(strings.TrimPrefix(part, "+"))
			seen++
		}
	}

	return hunk, seen == 2
}

// parseRange parses "start,count" or "start" format.
func parseRange(s string) (start, count int) {
	if idx := strings.Index(s, ","); idx >= 0 {
		start, _ = strconv.Atoi(s[:idx])
		count, _ = strconv.Atoi(s[idx+1:])
	} else {
		start, _ = strconv.Atoi(s)
		count = 1
	}
	return
}

func intPtr(n int) *int {
	return &n
}
