package reconcile

// DefaultStatusLabels maps PR labels to workflow statuses when no
// override is configured for a label.
var DefaultStatusLabels = map[string]string{
	"In development":    "In development",
	"Needs code review": "In code review",
	"Needs PM review":   "In PM review",
	"Ready":             "Ready to ship",
}

// StatusResolver picks the workflow status a pull request's labels call
// for.
type StatusResolver interface {
	Resolve(labels []string) (status string, ok bool)
}

// LabelStatusResolver resolves statuses through an override table backed by
// DefaultStatusLabels. Which of the matching labels wins is decided by the
// pick function.
type LabelStatusResolver struct {
	overrides map[string]string
	pick      func(matches []string) (string, bool)
}

// NewStatusResolver returns the resolver used by sync: of the labels that
// map to a status, in label order, the second one wins. Fewer than two
// mapped labels resolve to nothing.
func NewStatusResolver(overrides map[string]string) *LabelStatusResolver {
	return &LabelStatusResolver{overrides: overrides, pick: secondMatch}
}

// NewFirstMatchStatusResolver returns a resolver where the first mapped
// label wins.
func NewFirstMatchStatusResolver(overrides map[string]string) *LabelStatusResolver {
	return &LabelStatusResolver{overrides: overrides, pick: firstMatch}
}

// Resolve implements StatusResolver.
func (r *LabelStatusResolver) Resolve(labels []string) (string, bool) {
	var matches []string
	for _, label := range labels {
		if status, ok := r.overrides[label]; ok {
			matches = append(matches, status)
			continue
		}
		if status, ok := DefaultStatusLabels[label]; ok {
			matches = append(matches, status)
		}
	}
	return r.pick(matches)
}

func firstMatch(matches []string) (string, bool) {
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

func secondMatch(matches []string) (string, bool) {
	if len(matches) < 2 {
		return "", false
	}
	return matches[1], true
}
