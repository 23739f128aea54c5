package markdown

// Frontmatter is the read-only metadata block written above a record's
// markdown body.
type Frontmatter struct {
	Key      string `yaml:"key"`
	Kind     string `yaml:"kind"`
	Title    string `yaml:"title"`
	Status   string `yaml:"status,omitempty"`
	Assignee string `yaml:"assignee,omitempty"`
	PR       string `yaml:"pull_request,omitempty"`
	URL      string `yaml:"url,omitempty"`
	Synced   string `yaml:"synced"`
}
