package models

// RunParams is the parameter bag carried from resolution to the analyzers.
// Bots ignore the fields they do not understand.
type RunParams struct {
	MaxCommits int    `json:"max_commits,omitempty"`
	Since      string `json:"since,omitempty"` // ISO date, only commits/files after
	Until      string `json:"until,omitempty"` // ISO date, only commits/files before
	Mode       string `json:"mode,omitempty"`  // pmbot: "analyze" or "plan"
	Model      string `json:"model,omitempty"` // optional model override
}
