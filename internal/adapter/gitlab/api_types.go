package gitlab

// GitLab API v4 payload shapes, reduced to the fields the adapters read.
// See: https://docs.gitlab.com/api/rest/

type projectResponse struct {
	ID            int    `json:"id"`
	DefaultBranch string `json:"default_branch"`
}

type commitResponse struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	ParentIDs []string `json:"parent_ids"`
}

// diffEntry is one changed file in a commit or merge request. Diff carries
// the full headered fragment including --- a/ and +++ b/ lines.
type diffEntry struct {
	OldPath     string `json:"old_path"`
	NewPath     string `json:"new_path"`
	Diff        string `json:"diff"`
	NewFile     bool   `json:"new_file"`
	RenamedFile bool   `json:"renamed_file"`
	DeletedFile bool   `json:"deleted_file"`
}

type refEntry struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type mergeRequestResponse struct {
	IID          int    `json:"iid"`
	State        string `json:"state"`
	Title        string `json:"title"`
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
	SHA          string `json:"sha"`
}

type mergeRequestChangesResponse struct {
	Changes []diffEntry `json:"changes"`
}

type statusEntry struct {
	Status      string `json:"status"`
	Description string `json:"description"`
	Name        string `json:"name"`
	TargetURL   string `json:"target_url"`
}

type createStatusRequest struct {
	State       string `json:"state"`
	Description string `json:"description,omitempty"`
	Context     string `json:"context,omitempty"`
	TargetURL   string `json:"target_url,omitempty"`
}

// commitCommentRequest posts a comment on a commit, optionally anchored to
// a line of the new file version.
type commitCommentRequest struct {
	Note     string `json:"note"`
	Path     string `json:"path,omitempty"`
	Line     int    `json:"line,omitempty"`
	LineType string `json:"line_type,omitempty"`
}

type commitCommentResponse struct {
	Note     string `json:"note"`
	Path     string `json:"path"`
	Line     int    `json:"line"`
	LineType string `json:"line_type"`
}

type noteRequest struct {
	Body string `json:"body"`
}

type noteResponse struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

type stateEventRequest struct {
	StateEvent string `json:"state_event"`
}

// errorResponse covers both shapes GitLab uses: a message that may be a
// string or a structured object, and a bare error field.
type errorResponse struct {
	Message any    `json:"message"`
	Error   string `json:"error"`
}
