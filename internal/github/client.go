package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dt-pm-tools/aha-cli/internal/config"
)

const defaultBaseURL = "https://api.github.com"

// PullRequest is the subset of a pull request the sync needs.
type PullRequest struct {
	Number int
	Title  string
	URL    string
	Labels []string
	State  string
	Body   string
}

// Client queries the GitHub search API for pull requests.
type Client struct {
	baseURL    string
	login      string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client authenticating as cfg.Login.
func NewClient(cfg config.GitHubConfig, logger *slog.Logger) *Client {
	return NewClientWithBaseURL(defaultBaseURL, cfg, logger)
}

// NewClientWithBaseURL creates a client against an explicit API root.
func NewClientWithBaseURL(baseURL string, cfg config.GitHubConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		login:      cfg.Login,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// SplitRepo splits "owner/name" into its parts.
func SplitRepo(repo string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("wrong format for repository %q, expected owner/name", repo)
	}
	return owner, name, nil
}

// ListPullRequests returns the open (or closed) pull requests of repo,
// newest first. An empty author lists pull requests from everyone.
func (c *Client) ListPullRequests(ctx context.Context, repo, author string, open bool) ([]PullRequest, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	state := "closed"
	if open {
		state = "open"
	}
	query := fmt.Sprintf("is:%s is:pr repo:%s/%s", state, owner, name)
	if author != "" {
		query += " author:" + author
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "created")
	searchURL := c.baseURL + "/search/issues?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.login, c.token)
	req.Header.Set("Accept", "application/vnd.github+json")

	c.logger.Debug("github search", "url", searchURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GitHub API returned %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if result.IncompleteResults {
		c.logger.Warn("github search results incomplete", "repo", repo, "total", result.TotalCount)
	}

	pulls := make([]PullRequest, 0, len(result.Items))
	for _, item := range result.Items {
		labels := make([]string, 0, len(item.Labels))
		for _, label := range item.Labels {
			labels = append(labels, label.Name)
		}
		pulls = append(pulls, PullRequest{
			Number: item.Number,
			Title:  item.Title,
			URL:    item.HTMLURL,
			Labels: labels,
			State:  item.State,
			Body:   item.Body,
		})
	}
	return pulls, nil
}

// Checklist counts the markdown task-list items in a pull request body.
func Checklist(body string) (checked, total int) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "- [x]"), strings.HasPrefix(line, "- [X]"):
			checked++
			total++
		case strings.HasPrefix(line, "- [ ]"):
			total++
		}
	}
	return checked, total
}

type searchResponse struct {
	TotalCount        int          `json:"total_count"`
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []searchItem `json:"items"`
}

type searchItem struct {
	Number  int           `json:"number"`
	Title   string        `json:"title"`
	HTMLURL string        `json:"html_url"`
	State   string        `json:"state"`
	Body    string        `json:"body"`
	Labels  []searchLabel `json:"labels"`
}

type searchLabel struct {
	Name string `json:"name"`
}
