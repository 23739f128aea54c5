package reconcile

import (
	"testing"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
	"github.com/dt-pm-tools/aha-cli/internal/github"
)

var testPR = github.PullRequest{Number: 7, Title: "ENG-1 thing", URL: "https://github.com/acme/w/pull/7"}

func TestPlanFallbackStatusOnly(t *testing.T) {
	record := &aha.Record{
		ID:             "1",
		Name:           "Feature",
		WorkflowStatus: &aha.WorkflowStatus{Name: "Ready to develop"},
		AssignedToUser: &aha.User{Name: "Ada", Email: "ada@example.com"},
		CustomFields:   []aha.CustomField{{Key: "pull_request", Name: "Pull Request", Value: "https://old"}},
	}

	plan := Planner{WorkflowEmail: "flow@example.com"}.Plan(record, testPR, "")

	if plan.AssignedToUser != "" {
		t.Errorf("assignee = %q, want unset", plan.AssignedToUser)
	}
	if plan.CustomFields != nil {
		t.Errorf("linked field = %+v, want unset", plan.CustomFields)
	}
	if plan.WorkflowStatus == nil || plan.WorkflowStatus.Name != "In code review" {
		t.Errorf("status = %+v, want In code review", plan.WorkflowStatus)
	}
}

func TestPlanAllFields(t *testing.T) {
	record := &aha.Record{
		ID:             "1",
		Name:           "Feature",
		WorkflowStatus: &aha.WorkflowStatus{Name: "In development"},
	}

	plan := Planner{WorkflowEmail: "flow@example.com"}.Plan(record, testPR, "In PM review")

	if plan.AssignedToUser != "flow@example.com" {
		t.Errorf("assignee = %q", plan.AssignedToUser)
	}
	if plan.CustomFields == nil || plan.CustomFields.PullRequest != testPR.URL {
		t.Errorf("linked field = %+v", plan.CustomFields)
	}
	if plan.WorkflowStatus == nil || plan.WorkflowStatus.Name != "In PM review" {
		t.Errorf("status = %+v", plan.WorkflowStatus)
	}
}

func TestPlanNoOp(t *testing.T) {
	record := &aha.Record{
		ID:             "1",
		Name:           "Feature",
		WorkflowStatus: &aha.WorkflowStatus{Name: "In code review"},
		AssignedToUser: &aha.User{Email: "someone@example.com"},
		CustomFields:   []aha.CustomField{{Name: "Pull Request", Value: testPR.URL}},
	}

	plan := Planner{WorkflowEmail: "flow@example.com"}.Plan(record, testPR, "")
	if !plan.IsZero() {
		t.Errorf("plan = %+v, want no-op", plan)
	}
}

func TestPlanSkipsCurrentStatus(t *testing.T) {
	record := &aha.Record{
		ID:             "1",
		Name:           "Feature",
		WorkflowStatus: &aha.WorkflowStatus{Name: "Ready to ship"},
		AssignedToUser: &aha.User{Email: "someone@example.com"},
		CustomFields:   []aha.CustomField{{Name: "Pull Request", Value: testPR.URL}},
	}
	status, _ := NewStatusResolver(nil).Resolve([]string{"Needs code review", "Ready"})

	plan := Planner{WorkflowEmail: "flow@example.com"}.Plan(record, testPR, status)
	if !plan.IsZero() {
		t.Errorf("plan = %+v, want no-op for unchanged status", plan)
	}
}

func TestPlanFallbackStatuses(t *testing.T) {
	tests := []struct {
		current string
		want    bool
	}{
		{"Ready to develop", true},
		{"Under consideration", true},
		{"In development", false},
		{"Shipped", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			record := &aha.Record{ID: "1", Name: "F", AssignedToUser: &aha.User{Email: "x@y"},
				CustomFields: []aha.CustomField{{Name: "Pull Request"}}}
			if tt.current != "" {
				record.WorkflowStatus = &aha.WorkflowStatus{Name: tt.current}
			}
			plan := Planner{}.Plan(record, testPR, "")
			if got := plan.WorkflowStatus != nil; got != tt.want {
				t.Errorf("status set = %v, want %v", got, tt.want)
			}
		})
	}
}
