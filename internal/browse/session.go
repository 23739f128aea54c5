package browse

import (
	"context"
	"io"
	"log/slog"

	"github.com/dt-pm-tools/aha-cli/internal/markdown"
)

// Action is a navigation command decoded from a keystroke.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionEnter
	ActionBack
	ActionSearch
	ActionCreate
	ActionQuit
)

// Session routes input between the modal controller and the navigator.
// The modal gets every keystroke while it is open.
type Session struct {
	nav    *Navigator
	modal  Modal
	logger *slog.Logger
}

// NewSession wraps a navigator.
func NewSession(nav *Navigator, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{nav: nav, logger: logger}
}

// Navigator returns the navigation state machine.
func (s *Session) Navigator() *Navigator { return s.nav }

// Modal returns the modal input controller.
func (s *Session) Modal() *Modal { return &s.modal }

// Dispatch runs a navigation action. It returns true when the session
// should end. Actions are ignored while the modal is open.
func (s *Session) Dispatch(ctx context.Context, action Action) (quit bool) {
	if s.modal.Active() {
		return false
	}
	switch action {
	case ActionUp:
		s.nav.Up()
	case ActionDown:
		s.nav.Down()
	case ActionEnter:
		if err := s.nav.Enter(ctx); err != nil {
			s.logger.Error("enter failed", "level", s.nav.Level(), "error", err)
		}
	case ActionBack:
		s.nav.Back()
	case ActionSearch:
		s.modal.OpenSearch()
		s.nav.SetStatus("search")
	case ActionCreate:
		s.openWizard()
	case ActionQuit:
		return true
	}
	return false
}

// Type sends typed characters to the open modal.
func (s *Session) Type(runes ...rune) {
	for _, r := range runes {
		s.modal.Insert(r)
	}
}

// Erase removes the last typed character.
func (s *Session) Erase() { s.modal.Backspace() }

// Cancel closes the modal, discarding its input.
func (s *Session) Cancel() {
	if s.modal.Kind() == ModalWizard {
		s.nav.SetStatus("create cancelled")
	}
	s.modal.Cancel()
}

// Confirm handles enter inside the modal. A completed wizard is submitted
// and the Features list reloaded.
func (s *Session) Confirm(ctx context.Context) {
	wizard, done := s.modal.Submit()
	if !done {
		return
	}
	s.submit(ctx, wizard)
}

func (s *Session) openWizard() {
	if _, ok := s.nav.SelectedRelease(); !ok {
		s.nav.SetStatus("select a release first")
		return
	}
	kind := WizardFeature
	if s.nav.Level() == LevelFeature {
		kind = WizardRequirement
	}
	s.modal.OpenWizard(kind)
	s.nav.SetStatus("create")
}

func (s *Session) submit(ctx context.Context, wizard *Wizard) {
	description, err := markdown.ToHTML(wizard.Draft().Description)
	if err != nil {
		s.nav.SetStatus("converting description: %v", err)
		return
	}

	var created string
	switch wizard.Kind() {
	case WizardFeature:
		release, ok := s.nav.SelectedRelease()
		if !ok {
			s.nav.SetStatus("select a release first")
			return
		}
		draft := wizard.FeatureDraft()
		draft.Description = description
		record, err := s.nav.source.CreateFeature(ctx, release.ID, draft)
		if err != nil {
			s.nav.SetStatus("creating feature: %v", err)
			s.logger.Error("creating feature failed", "release", release.ID, "error", err)
			return
		}
		created = record.ReferenceNum

	case WizardRequirement:
		feature, ok := s.nav.Cache().Features.SelectedFeature()
		if !ok {
			s.nav.SetStatus("select a feature first")
			return
		}
		ref := feature.ReferenceNum
		if ref == "" {
			ref = feature.ID
		}
		draft := wizard.RequirementDraft()
		draft.Description = description
		record, err := s.nav.source.CreateRequirement(ctx, ref, draft)
		if err != nil {
			s.nav.SetStatus("creating requirement: %v", err)
			s.logger.Error("creating requirement failed", "feature", ref, "error", err)
			return
		}
		created = record.ReferenceNum
	}

	s.logger.Info("record created", "kind", wizard.Kind(), "key", created)
	if err := s.nav.ReloadFeatures(ctx); err != nil {
		s.logger.Error("reloading features failed", "error", err)
		return
	}
	s.nav.SetStatus("created %s", created)
}
