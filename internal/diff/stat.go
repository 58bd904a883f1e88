package diff

import "strings"

// Stat holds the addition and deletion counts of one or more patches.
type Stat struct {
	Additions int
	Deletions int
}

// Add returns the pointwise sum of two stats.
func (s Stat) Add(other Stat) Stat {
	return Stat{
		Additions: s.Additions + other.Additions,
		Deletions: s.Deletions + other.Deletions,
	}
}

// Aggregate computes the total additions and deletions across per-file
// patches. File header lines (--- a/..., +++ b/...) are never counted even
// though they begin with the change markers; they are only recognized in
// header regions, either at the start of a fragment or where a ---/+++ pair
// opens the next file of a multi-file diff, so content lines that happen to
// start with dashes stay counted.
func Aggregate(patches ...string) Stat {
	var total Stat
	for _, patch := range patches {
		total = total.Add(count(patch))
	}
	return total
}

func count(patch string) Stat {
	var s Stat
	lines := strings.Split(patch, "\n")
	inHeader := true
	for i, line := range lines {
		if strings.HasPrefix(line, "@@") {
			inHeader = false
			continue
		}
		// A ---/+++ pair after a hunk starts the next file's header.
		if !inHeader && strings.HasPrefix(line, "--- ") &&
			i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ") {
			inHeader = true
		}
		if inHeader {
			continue
		}
		if strings.HasPrefix(line, "\\ ") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+"):
			s.Additions++
		case strings.HasPrefix(line, "-"):
			s.Deletions++
		}
	}
	return s
}
