package browse

// ModalKind is the input mode that owns keystrokes while active.
type ModalKind int

const (
	ModalInactive ModalKind = iota
	ModalSearch
	ModalWizard
)

// Modal is the modal input controller. While a search or wizard is open
// every keystroke goes to the buffer and navigation receives none.
type Modal struct {
	kind   ModalKind
	buffer []rune
	wizard *Wizard
}

// Kind returns the active mode.
func (m *Modal) Kind() ModalKind { return m.kind }

// Active reports whether a mode other than ModalInactive is open.
func (m *Modal) Active() bool { return m.kind != ModalInactive }

// Buffer returns the text typed so far.
func (m *Modal) Buffer() string { return string(m.buffer) }

// Wizard returns the open wizard, or nil.
func (m *Modal) Wizard() *Wizard {
	if m.kind != ModalWizard {
		return nil
	}
	return m.wizard
}

// Prompt returns the label shown next to the buffer.
func (m *Modal) Prompt() string {
	switch m.kind {
	case ModalSearch:
		return "Search"
	case ModalWizard:
		return m.wizard.Prompt()
	}
	return ""
}

// OpenSearch starts an empty search.
func (m *Modal) OpenSearch() {
	m.kind = ModalSearch
	m.buffer = m.buffer[:0]
	m.wizard = nil
}

// OpenWizard starts a creation wizard of the given kind.
func (m *Modal) OpenWizard(kind WizardKind) {
	m.kind = ModalWizard
	m.buffer = m.buffer[:0]
	m.wizard = NewWizard(kind)
}

// Insert appends r to the buffer.
func (m *Modal) Insert(r rune) {
	if !m.Active() {
		return
	}
	m.buffer = append(m.buffer, r)
}

// Backspace removes the last character of the buffer.
func (m *Modal) Backspace() {
	if len(m.buffer) == 0 {
		return
	}
	m.buffer = m.buffer[:len(m.buffer)-1]
}

// Cancel discards the buffer and any partial record and closes the modal.
func (m *Modal) Cancel() {
	if m.wizard != nil {
		m.wizard.Reset()
	}
	m.kind = ModalInactive
	m.buffer = m.buffer[:0]
}

// Submit handles enter. A search ignores it. A wizard commits the buffer
// to the current step; when that was the last step the modal closes and
// the finished wizard is returned.
func (m *Modal) Submit() (*Wizard, bool) {
	if m.kind != ModalWizard {
		return nil, false
	}
	_, done := m.wizard.Commit(string(m.buffer))
	m.buffer = m.buffer[:0]
	if !done {
		return nil, false
	}
	finished := m.wizard
	m.kind = ModalInactive
	m.wizard = nil
	return finished, true
}
