package reconcile

import (
	"regexp"
	"strings"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
)

// Patterns are tried most specific first: a requirement key also starts
// with a feature key.
var (
	requirementKey = regexp.MustCompile(`^[A-Z]+-\d+-\d+`)
	featureKey     = regexp.MustCompile(`^[A-Z]+-\d+`)
)

// Match is a tracker key found at the start of a pull request title.
type Match struct {
	Kind aha.Kind
	Key  string
}

// MatchTitle extracts the tracker key a pull request title starts with.
func MatchTitle(title string) (Match, bool) {
	title = strings.TrimSpace(title)
	if key := requirementKey.FindString(title); key != "" {
		return Match{Kind: aha.KindRequirement, Key: key}, true
	}
	if key := featureKey.FindString(title); key != "" {
		return Match{Kind: aha.KindFeature, Key: key}, true
	}
	return Match{}, false
}
