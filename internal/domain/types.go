package domain

import (
	"fmt"
	"strings"
)

// Repository identifies a repository on a hosting site by owner and name.
// It is the scope used to resolve bare #N commit references.
type Repository struct {
	Owner string
	Name  string
}

// FullName returns the owner/name form used in hosting URLs.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// IsZero reports whether the repository is unset.
func (r Repository) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

// ParseFullName parses an "owner/name" string into a Repository.
func ParseFullName(s string) (Repository, error) {
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("invalid repository %q: expected owner/name", s)
	}
	return Repository{Owner: owner, Name: name}, nil
}

// Status is the state of a single commit status or of a whole commit.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSuccess
	StatusFailed
	StatusCanceled
	StatusErrored
)

// String returns the lowercase state name shared by both hosting sites.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusCanceled:
		return "canceled"
	case StatusErrored:
		return "errored"
	default:
		return "pending"
	}
}

// ParseStatus maps a hosting state name onto a Status. Unknown names fall
// back to pending, the weakest claim either site makes about a commit.
func ParseStatus(s string) Status {
	switch strings.ToLower(s) {
	case "running":
		return StatusRunning
	case "success", "succeeded":
		return StatusSuccess
	case "failed", "failure":
		return StatusFailed
	case "canceled", "cancelled":
		return StatusCanceled
	case "errored", "error":
		return StatusErrored
	default:
		return StatusPending
	}
}

// CommitStatus is one CI/status entry attached to a commit.
type CommitStatus struct {
	State       Status
	Description string
	Context     string
	TargetURL   string
}

// statusSeverity orders states so the combined status of a commit is the
// most severe of its entries.
func statusSeverity(s Status) int {
	switch s {
	case StatusErrored:
		return 5
	case StatusFailed:
		return 4
	case StatusCanceled:
		return 3
	case StatusRunning:
		return 2
	case StatusPending:
		return 1
	default: // StatusSuccess
		return 0
	}
}

// CombinedStatus reduces a commit's status entries to a single state.
// A commit with no statuses reports pending, matching the hosting sites.
func CombinedStatus(statuses []CommitStatus) Status {
	if len(statuses) == 0 {
		return StatusPending
	}
	combined := StatusSuccess
	for _, st := range statuses {
		if statusSeverity(st.State) > statusSeverity(combined) {
			combined = st.State
		}
	}
	return combined
}

// Comment is a comment placed on a commit or merge request, as echoed back
// by the hosting API. Positioned is true when the comment landed on a
// specific diff line rather than on the object as a whole.
type Comment struct {
	Body       string
	Path       string
	Line       int
	Positioned bool
}
