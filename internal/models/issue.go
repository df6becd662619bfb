package models

import "time"

// IssueState mirrors the tracker-side state filter
type IssueState string

const (
	IssueOpen   IssueState = "opened"
	IssueClosed IssueState = "closed"
	IssueAll    IssueState = "all"
)

// Issue is a single issue normalised from the GitLab or GitHub API response.
// Raw API payloads never leave the tracker clients.
type Issue struct {
	IID         int        `json:"iid"`
	Title       string     `json:"title"`
	State       IssueState `json:"state"`
	Author      string     `json:"author"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Labels      []string   `json:"labels,omitempty"`
	Assignees   []string   `json:"assignees,omitempty"`
	Milestone   string     `json:"milestone,omitempty"`
	Description string     `json:"description,omitempty"`
	Weight      int        `json:"weight,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	WebURL      string     `json:"web_url,omitempty"`
}

// AgeDays returns how many days since the issue was opened
func (i *Issue) AgeDays() int {
	return int(time.Since(i.CreatedAt).Hours() / 24)
}

// IsStale reports whether the issue has gone untouched longer than threshold
func (i *Issue) IsStale(thresholdDays int) bool {
	return i.State == IssueOpen && time.Since(i.UpdatedAt).Hours() > float64(thresholdDays)*24
}

// IssueSet is the collection of issues fetched for one project
type IssueSet struct {
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	FetchedAt   time.Time `json:"fetched_at"`
	Issues      []Issue   `json:"issues"`
}

// Open returns the open issues
func (s *IssueSet) Open() []Issue {
	var out []Issue
	for _, i := range s.Issues {
		if i.State == IssueOpen {
			out = append(out, i)
		}
	}
	return out
}

// Closed returns the closed issues
func (s *IssueSet) Closed() []Issue {
	var out []Issue
	for _, i := range s.Issues {
		if i.State == IssueClosed {
			out = append(out, i)
		}
	}
	return out
}

// Stale returns open issues untouched for more than thresholdDays
func (s *IssueSet) Stale(thresholdDays int) []Issue {
	var out []Issue
	for _, i := range s.Issues {
		if i.IsStale(thresholdDays) {
			out = append(out, i)
		}
	}
	return out
}

// Labels returns every label used across the set, first-seen order
func (s *IssueSet) AllLabels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, i := range s.Issues {
		for _, l := range i.Labels {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}
	return labels
}
