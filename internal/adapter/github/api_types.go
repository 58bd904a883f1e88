package github

// GitHub REST API payload shapes, reduced to the fields the adapters read.
// See: https://docs.github.com/en/rest

type repositoryResponse struct {
	DefaultBranch string `json:"default_branch"`
}

type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
	} `json:"commit"`
	Parents []struct {
		SHA string `json:"sha"`
	} `json:"parents"`
	Files []fileEntry `json:"files"`
}

// fileEntry is one changed file in a commit or pull request. Patch holds a
// bare hunk sequence; it is empty for binary files.
type fileEntry struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Patch    string `json:"patch"`
}

type compareResponse struct {
	// Status is the relation of head to base: ahead, behind, identical
	// or diverged.
	Status string `json:"status"`
}

type pullRequestResponse struct {
	Number int    `json:"number"`
	State  string `json:"state"`
	Title  string `json:"title"`
	Merged bool   `json:"merged"`
	Base   struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	} `json:"base"`
	Head struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	} `json:"head"`
}

type commitListEntry struct {
	SHA string `json:"sha"`
}

type statusEntry struct {
	State       string `json:"state"`
	Description string `json:"description"`
	Context     string `json:"context"`
	TargetURL   string `json:"target_url"`
}

type createStatusRequest struct {
	State       string `json:"state"`
	Description string `json:"description,omitempty"`
	Context     string `json:"context,omitempty"`
	TargetURL   string `json:"target_url,omitempty"`
}

// commentRequest covers commit comments, review comments and issue
// comments; unused fields stay off the wire.
type commentRequest struct {
	Body     string `json:"body"`
	Path     string `json:"path,omitempty"`
	Position int    `json:"position,omitempty"`
	CommitID string `json:"commit_id,omitempty"`
}

type commentResponse struct {
	ID       int64  `json:"id"`
	Body     string `json:"body"`
	Path     string `json:"path"`
	Position int    `json:"position"`
}

type errorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
	Errors           []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors,omitempty"`
}
