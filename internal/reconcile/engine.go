package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
	"github.com/dt-pm-tools/aha-cli/internal/github"
)

// RecordSource reads and writes tracker records.
type RecordSource interface {
	FetchRecord(ctx context.Context, kind aha.Kind, key string) (*aha.Record, error)
	UpdateRecord(ctx context.Context, kind aha.Kind, key string, update aha.FieldUpdate) (*aha.Record, error)
}

// Notifier shows a message to the user outside the terminal.
type Notifier interface {
	Notify(title, message string) error
}

// Options control a reconciliation run.
type Options struct {
	// DryRun plans updates without writing them.
	DryRun bool
	// Silent suppresses notifications.
	Silent bool
	// Concurrency is the number of pull requests processed at once.
	// Values below 2 process them sequentially.
	Concurrency int
}

// Outcome is what happened to one pull request.
type Outcome struct {
	PR      github.PullRequest
	Match   Match
	Matched bool
	Status  string
	Plan    aha.FieldUpdate
	Applied bool
	Err     error
}

// Summary collects the outcomes of a run in input order.
type Summary struct {
	Outcomes []Outcome
}

// Counts returns how many pull requests were skipped, left unchanged,
// updated (or planned, in dry-run mode), and failed. An applied update
// whose response could not be read counts as updated.
func (s Summary) Counts() (skipped, unchanged, changed, failed int) {
	for _, outcome := range s.Outcomes {
		switch {
		case outcome.Applied:
			changed++
		case outcome.Err != nil:
			failed++
		case !outcome.Matched:
			skipped++
		case outcome.Plan.IsZero():
			unchanged++
		default:
			changed++
		}
	}
	return skipped, unchanged, changed, failed
}

// Engine matches pull requests to tracker records and brings the records
// up to date.
type Engine struct {
	records  RecordSource
	resolver StatusResolver
	planner  Planner
	notifier Notifier
	options  Options
	logger   *slog.Logger
}

// NewEngine creates an engine. notifier may be nil when opts.Silent is set.
func NewEngine(records RecordSource, resolver StatusResolver, planner Planner, notifier Notifier, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		records:  records,
		resolver: resolver,
		planner:  planner,
		notifier: notifier,
		options:  opts,
		logger:   logger,
	}
}

// Run reconciles every pull request. Failures are recorded per pull
// request and never stop the run.
func (e *Engine) Run(ctx context.Context, pulls []github.PullRequest) Summary {
	outcomes := make([]Outcome, len(pulls))

	if e.options.Concurrency < 2 {
		for i, pr := range pulls {
			outcomes[i] = e.Reconcile(ctx, pr)
		}
		return Summary{Outcomes: outcomes}
	}

	// Each pull request touches only its own record, so the only shared
	// state is the outcome slot it owns.
	var group errgroup.Group
	group.SetLimit(e.options.Concurrency)
	for i, pr := range pulls {
		group.Go(func() error {
			outcomes[i] = e.Reconcile(ctx, pr)
			return nil
		})
	}
	group.Wait()
	return Summary{Outcomes: outcomes}
}

// Reconcile runs match, fetch, plan, notify and apply for one pull
// request.
func (e *Engine) Reconcile(ctx context.Context, pr github.PullRequest) Outcome {
	outcome := Outcome{PR: pr}

	match, ok := MatchTitle(pr.Title)
	if !ok {
		e.logger.Debug("no tracker key in pull request title", "pr", pr.Number, "title", pr.Title)
		return outcome
	}
	outcome.Match = match
	outcome.Matched = true

	record, err := e.records.FetchRecord(ctx, match.Kind, match.Key)
	if err != nil {
		outcome.Err = fmt.Errorf("fetching %s %s: %w", match.Kind, match.Key, err)
		e.logger.Error("fetch failed", "key", match.Key, "pr", pr.Number, "error", err)
		return outcome
	}

	status, _ := e.resolver.Resolve(pr.Labels)
	outcome.Status = status
	outcome.Plan = e.planner.Plan(record, pr, status)
	if outcome.Plan.IsZero() {
		e.logger.Debug("record up to date", "key", match.Key, "pr", pr.Number)
		return outcome
	}

	if !e.options.Silent && record.URL != "" && e.notifier != nil {
		title := fmt.Sprintf("%s updated", match.Key)
		message := fmt.Sprintf("Pull request #%d: %s", pr.Number, record.URL)
		if err := e.notifier.Notify(title, message); err != nil {
			e.logger.Warn("notification failed", "key", match.Key, "error", err)
		}
	}

	if e.options.DryRun {
		e.logger.Info("dry run, not updating", "key", match.Key, "pr", pr.Number)
		return outcome
	}

	if _, err := e.records.UpdateRecord(ctx, match.Kind, match.Key, outcome.Plan); err != nil {
		outcome.Err = fmt.Errorf("updating %s %s: %w", match.Kind, match.Key, err)
		if errors.Is(err, aha.ErrDecode) {
			// The write was accepted; only the echoed record is unreadable.
			outcome.Applied = true
			e.logger.Warn("update response unreadable", "key", match.Key, "pr", pr.Number, "error", err)
			return outcome
		}
		e.logger.Error("update failed", "key", match.Key, "pr", pr.Number, "error", err)
		return outcome
	}
	outcome.Applied = true
	e.logger.Info("record updated", "key", match.Key, "pr", pr.Number)
	return outcome
}

// Describe lists the changes of a plan, one line per field.
func Describe(record string, plan aha.FieldUpdate) []string {
	var changes []string
	if plan.AssignedToUser != "" {
		changes = append(changes, fmt.Sprintf("%s assignee: -> %q", record, plan.AssignedToUser))
	}
	if plan.WorkflowStatus != nil {
		changes = append(changes, fmt.Sprintf("%s status: -> %q", record, plan.WorkflowStatus.Name))
	}
	if plan.CustomFields != nil {
		changes = append(changes, fmt.Sprintf("%s pull request: -> %s", record, plan.CustomFields.PullRequest))
	}
	return changes
}
