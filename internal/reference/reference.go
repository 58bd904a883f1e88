// Package reference classifies the issue and merge-request references in a
// commit message. One scan over the message produces an ordered list of
// typed references; every derived set (mentioned, closes, will-fix, ...)
// is a filter over that list, so the governing-verb rule lives in exactly
// one place.
package reference

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/etcher-be/igit/internal/domain"
)

// Verb is the semantic action a commit message associates with a reference.
type Verb int

const (
	// VerbMention is the catch-all: every reference token found anywhere
	// in a message is at least a mention.
	VerbMention Verb = iota
	// VerbClose marks references governed by close/closes/closed.
	VerbClose
	// VerbFix marks references governed by fix/fixes/fixed. Fix-style
	// verbs always denote a pending action and never imply close.
	VerbFix
	// VerbResolve marks references governed by resolve/resolves/resolved,
	// conventionally aimed at merge requests rather than issues.
	VerbResolve
)

// String returns the verb family name.
func (v Verb) String() string {
	switch v {
	case VerbClose:
		return "close"
	case VerbFix:
		return "fix"
	case VerbResolve:
		return "resolve"
	default:
		return "mention"
	}
}

// Reference is a single (verb, target) pair parsed from a commit message.
type Reference struct {
	Verb   Verb
	Repo   domain.Repository
	Number int
}

// List is an ordered sequence of references, first occurrence first,
// duplicates preserved.
type List []Reference

// token matches either a verb keyword or a reference. A reference is #N for
// the commit's own repository or owner/repo#N for a cross-repository target.
// A bare # without digits matches nothing and stays plain text.
var token = regexp.MustCompile(
	`(?i)\b(close[sd]?|fix(?:e[sd])?|resolve[sd]?)\b` +
		`|(?:\b([A-Za-z0-9][\w.-]*)/([A-Za-z0-9][\w.-]*))?#(\d+)`)

// Parse scans a commit message for references and their governing verbs.
// A verb keyword governs the reference tokens that follow it on the same
// line, up to the next verb keyword. Parsing never fails; a message without
// reference tokens yields an empty list regardless of any verbs present.
func Parse(message string, own domain.Repository) List {
	var refs List

	for _, line := range strings.Split(message, "\n") {
		var governing *Verb

		for _, m := range token.FindAllStringSubmatch(line, -1) {
			if m[1] != "" {
				v := verbFamily(m[1])
				governing = &v
				continue
			}

			number, err := strconv.Atoi(m[4])
			if err != nil || number <= 0 {
				continue
			}

			repo := own
			if m[2] != "" {
				repo = domain.Repository{Owner: m[2], Name: m[3]}
			}

			refs = append(refs, Reference{Verb: VerbMention, Repo: repo, Number: number})
			if governing != nil {
				refs = append(refs, Reference{Verb: *governing, Repo: repo, Number: number})
			}
		}
	}

	return refs
}

func verbFamily(keyword string) Verb {
	switch strings.ToLower(keyword)[0] {
	case 'c':
		return VerbClose
	case 'f':
		return VerbFix
	default:
		return VerbResolve
	}
}

// Mentioned returns every distinct target in the list, in first-occurrence
// order. This is the superset of all verb-filtered sets.
func (l List) Mentioned() List {
	return l.dedupe(func(Reference) bool { return true })
}

// WithVerb returns the distinct targets governed by the given verb family.
func (l List) WithVerb(v Verb) List {
	return l.dedupe(func(r Reference) bool { return r.Verb == v })
}

// Numbers returns the reference numbers in list order.
func (l List) Numbers() []int {
	nums := make([]int, len(l))
	for i, r := range l {
		nums[i] = r.Number
	}
	return nums
}

func (l List) dedupe(keep func(Reference) bool) List {
	type target struct {
		repo   domain.Repository
		number int
	}
	seen := make(map[target]bool)
	var out List
	for _, r := range l {
		if !keep(r) {
			continue
		}
		key := target{r.Repo, r.Number}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Reference{Verb: r.Verb, Repo: r.Repo, Number: r.Number})
	}
	return out
}
