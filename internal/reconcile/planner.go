package reconcile

import (
	"github.com/dt-pm-tools/aha-cli/internal/aha"
	"github.com/dt-pm-tools/aha-cli/internal/github"
)

// StatusInCodeReview is the status a record moves to when a pull request
// exists but its labels resolve no status.
const StatusInCodeReview = "In code review"

// fallbackFrom lists the statuses the fallback is allowed to move a
// record out of.
var fallbackFrom = map[string]bool{
	"Ready to develop":    true,
	"Under consideration": true,
}

// Planner computes the fields of a record that a pull request requires to
// change.
type Planner struct {
	// WorkflowEmail is assigned to records that have no assignee.
	WorkflowEmail string
}

// Plan returns the sparse update for record. An empty status means no
// status was resolved from labels. A status the record already has is not
// sent again. The result is zero when nothing needs
// to change.
func (p Planner) Plan(record *aha.Record, pr github.PullRequest, status string) aha.FieldUpdate {
	var update aha.FieldUpdate

	if !record.Assigned() && p.WorkflowEmail != "" {
		update.AssignedToUser = p.WorkflowEmail
	}

	if _, linked := record.CustomField(aha.PullRequestFieldName); !linked {
		update.CustomFields = &aha.PullRequestField{PullRequest: pr.URL}
	}

	switch {
	case status != "" && status == record.StatusName():
	case status != "":
		update.WorkflowStatus = &aha.StatusUpdate{Name: status}
	case fallbackFrom[record.StatusName()]:
		update.WorkflowStatus = &aha.StatusUpdate{Name: StatusInCodeReview}
	}

	return update
}
