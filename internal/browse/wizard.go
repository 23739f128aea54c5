package browse

import (
	"fmt"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
)

// WizardKind is the kind of record a wizard creates.
type WizardKind int

const (
	WizardFeature WizardKind = iota
	WizardRequirement
)

func (k WizardKind) String() string {
	switch k {
	case WizardFeature:
		return "feature"
	case WizardRequirement:
		return "requirement"
	}
	return fmt.Sprintf("WizardKind(%d)", int(k))
}

// WizardStep is the field a wizard is waiting for.
type WizardStep int

const (
	StepName WizardStep = iota
	StepDescription
	StepNotes
	StepDone
)

// Notes answer that marks a draft as needing release notes.
const notesYes = "Yes"

// Draft is the partial record collected by a wizard.
type Draft struct {
	Name        string
	Description string
	Notes       string
}

// Wizard is the ordered prompt sequence that builds a new feature or
// requirement. Features ask name, description and notes; requirements
// skip the notes step.
type Wizard struct {
	kind  WizardKind
	step  WizardStep
	draft Draft
}

// NewWizard returns a wizard at its first step.
func NewWizard(kind WizardKind) *Wizard {
	return &Wizard{kind: kind}
}

// Kind returns the kind of record being created.
func (w *Wizard) Kind() WizardKind { return w.kind }

// Step returns the current step.
func (w *Wizard) Step() WizardStep { return w.step }

// Draft returns the fields committed so far.
func (w *Wizard) Draft() Draft { return w.draft }

// Done reports whether every field has been committed.
func (w *Wizard) Done() bool { return w.step == StepDone }

// Prompt returns the label for the current step.
func (w *Wizard) Prompt() string {
	switch w.step {
	case StepName:
		if w.kind == WizardRequirement {
			return "Requirement Name"
		}
		return "Feature Name"
	case StepDescription:
		return "Description"
	case StepNotes:
		return "Needs notes? (Yes/No)"
	}
	return ""
}

// Commit stores input in the current step's field and advances. It
// returns the next prompt, or done once the last field is committed.
// Committing to a finished wizard changes nothing.
func (w *Wizard) Commit(input string) (next string, done bool) {
	switch w.step {
	case StepName:
		w.draft.Name = input
		w.step = StepDescription
	case StepDescription:
		w.draft.Description = input
		if w.kind == WizardRequirement {
			w.step = StepDone
		} else {
			w.step = StepNotes
		}
	case StepNotes:
		w.draft.Notes = input
		w.step = StepDone
	}
	return w.Prompt(), w.Done()
}

// Reset discards the partial record and returns to the first prompt.
func (w *Wizard) Reset() {
	w.step = StepName
	w.draft = Draft{}
}

// FeatureDraft finalizes the draft for creation as a feature. Any notes
// answer other than "Yes" is sent as "Not required".
func (w *Wizard) FeatureDraft() aha.FeatureDraft {
	notes := aha.NotesNotRequired
	if w.draft.Notes == notesYes {
		notes = aha.NotesRequired
	}
	return aha.FeatureDraft{
		Name:         w.draft.Name,
		Description:  w.draft.Description,
		CustomFields: &aha.NotesField{ReleaseNotes: notes},
	}
}

// RequirementDraft finalizes the draft for creation as a requirement.
// The notes marker is only sent for an answer of "Yes".
func (w *Wizard) RequirementDraft() aha.RequirementDraft {
	draft := aha.RequirementDraft{
		Name:        w.draft.Name,
		Description: w.draft.Description,
	}
	if w.draft.Notes == notesYes {
		draft.CustomFields = &aha.NotesField{ReleaseNotes: aha.NotesRequired}
	}
	return draft
}
