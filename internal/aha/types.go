package aha

import (
	"errors"
	"fmt"
)

// Kind identifies which tracker collection a record belongs to.
type Kind int

const (
	KindProject Kind = iota
	KindRelease
	KindFeature
	KindRequirement
)

func (k Kind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindRelease:
		return "release"
	case KindFeature:
		return "feature"
	case KindRequirement:
		return "requirement"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// collection returns the plural path segment used by the REST API.
func (k Kind) collection() string {
	if k == KindProject {
		return "products"
	}
	return k.String() + "s"
}

// envelope returns the JSON key that wraps a single record of this kind.
func (k Kind) envelope() string {
	if k == KindProject {
		return "product"
	}
	return k.String()
}

// PullRequestFieldName is the display name of the custom field holding the
// linked pull request URL.
const PullRequestFieldName = "Pull Request"

var (
	// ErrIncompleteRecord is returned when a record lacks a field every
	// record of its kind must carry.
	ErrIncompleteRecord = errors.New("incomplete record")
	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("decoding response")
)

// Record is a project, release, feature or requirement as returned by the
// tracker API. Optional nested objects are pointers so that a JSON null
// and an absent field are both nil.
type Record struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ReferenceNum   string          `json:"reference_num,omitempty"`
	URL            string          `json:"url,omitempty"`
	WorkflowStatus *WorkflowStatus `json:"workflow_status,omitempty"`
	AssignedToUser *User           `json:"assigned_to_user,omitempty"`
	CustomFields   []CustomField   `json:"custom_fields,omitempty"`
	Description    *Description    `json:"description,omitempty"`
	Requirements   []Record        `json:"requirements,omitempty"`
}

// WorkflowStatus is the record's position in its workflow.
type WorkflowStatus struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"` // "#rrggbb"
}

// User is a tracker user.
type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CustomField is a custom field value as read from a record.
type CustomField struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Value any    `json:"value"`
	Type  string `json:"type,omitempty"`
}

// Description holds the HTML body of a record.
type Description struct {
	ID   string `json:"id,omitempty"`
	Body string `json:"body"`
}

// Validate reports an ErrIncompleteRecord when r lacks a field required for
// kind.
func (r *Record) Validate(kind Kind) error {
	if r.ID == "" {
		return fmt.Errorf("%s without id: %w", kind, ErrIncompleteRecord)
	}
	if r.Name == "" {
		return fmt.Errorf("%s %s without name: %w", kind, r.ID, ErrIncompleteRecord)
	}
	if kind == KindFeature || kind == KindRequirement {
		if r.WorkflowStatus == nil || r.WorkflowStatus.Name == "" {
			return fmt.Errorf("%s %s without workflow_status: %w", kind, r.ID, ErrIncompleteRecord)
		}
	}
	if kind == KindFeature {
		for i := range r.Requirements {
			if err := r.Requirements[i].Validate(KindRequirement); err != nil {
				return fmt.Errorf("feature %s: %w", r.ID, err)
			}
		}
	}
	return nil
}

// StatusName returns the workflow status name or "".
func (r *Record) StatusName() string {
	if r.WorkflowStatus == nil {
		return ""
	}
	return r.WorkflowStatus.Name
}

// Assigned reports whether the record has an assignee.
func (r *Record) Assigned() bool {
	return r.AssignedToUser != nil && (r.AssignedToUser.Email != "" || r.AssignedToUser.Name != "" || r.AssignedToUser.ID != "")
}

// CustomField returns the custom field with the given display name.
func (r *Record) CustomField(name string) (CustomField, bool) {
	for _, field := range r.CustomFields {
		if field.Name == name {
			return field, true
		}
	}
	return CustomField{}, false
}

// FieldUpdate is the sparse body of a record update. A nil or empty member
// is left untouched by the tracker.
type FieldUpdate struct {
	AssignedToUser string            `json:"assigned_to_user,omitempty"`
	CustomFields   *PullRequestField `json:"custom_fields,omitempty"`
	WorkflowStatus *StatusUpdate     `json:"workflow_status,omitempty"`
}

// IsZero reports whether the update changes nothing.
func (u FieldUpdate) IsZero() bool {
	return u.AssignedToUser == "" && u.CustomFields == nil && u.WorkflowStatus == nil
}

// PullRequestField sets the linked pull request custom field.
type PullRequestField struct {
	PullRequest string `json:"pull_request"`
}

// StatusUpdate moves a record to the named workflow status.
type StatusUpdate struct {
	Name string `json:"name"`
}

// Release notes marker values for FeatureDraft.
const (
	NotesRequired    = "Required"
	NotesNotRequired = "Not required"
)

// NotesField carries the release notes marker of a draft.
type NotesField struct {
	ReleaseNotes string `json:"release_notes1"`
}

// FeatureDraft is the body for creating a feature in a release.
type FeatureDraft struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	ReleaseID    string      `json:"release_id,omitempty"`
	CustomFields *NotesField `json:"custom_fields,omitempty"`
}

// RequirementDraft is the body for creating a requirement on a feature.
type RequirementDraft struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	CustomFields *NotesField `json:"custom_fields,omitempty"`
}
