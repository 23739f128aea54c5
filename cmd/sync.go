package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
	"github.com/dt-pm-tools/aha-cli/internal/config"
	"github.com/dt-pm-tools/aha-cli/internal/github"
	"github.com/dt-pm-tools/aha-cli/internal/notify"
	"github.com/dt-pm-tools/aha-cli/internal/reconcile"
)

var (
	syncDryRun      bool
	syncSilent      bool
	syncRepo        string
	syncConcurrency int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Update Aha! records from open pull requests",
	Long: `Finds your open pull requests, matches each title's leading key (ENG-123 or
ENG-123-4) to a feature or requirement, and fills in the assignee, the pull request
link and the workflow status implied by the labels. Use --dry-run to preview.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if err := appConfig.ValidateGitHub(); err != nil {
			return fmt.Errorf("invalid config: %w\nRun 'aha config' to set up credentials", err)
		}

		repos := appConfig.ReposFor(syncRepo)
		if len(repos) == 0 {
			return fmt.Errorf("no repositories to sync: pass --repo or add repos to the config file")
		}

		ctx := cmd.Context()
		logger := newLogger()
		records := aha.NewClient(appConfig.Aha, logger)
		pulls := github.NewClient(appConfig.GitHub, logger)

		var notifier reconcile.Notifier
		if !syncSilent {
			notifier = notify.NewDesktop()
		}
		planner := reconcile.Planner{WorkflowEmail: appConfig.Aha.Email}
		opts := reconcile.Options{
			DryRun:      syncDryRun,
			Silent:      syncSilent,
			Concurrency: syncConcurrency,
		}

		var failed int
		for _, repo := range repos {
			prs, err := pulls.ListPullRequests(ctx, repo.Name, repo.Username, true)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", repo.Name, err)
				failed++
				continue
			}

			engine := reconcile.NewEngine(records, newResolver(appConfig.StatusPolicy, repo), planner, notifier, opts, logger)
			summary := engine.Run(ctx, prs)
			_, _, _, errs := summary.Counts()
			failed += errs
			printSummary(os.Stdout, repo.Name, summary, syncDryRun)
		}

		if failed > 0 {
			return fmt.Errorf("%d pull request(s) or repositories failed", failed)
		}
		return nil
	},
}

// newResolver picks the label precedence configured by status_policy.
func newResolver(policy string, repo config.RepoConfig) reconcile.StatusResolver {
	if policy == config.StatusPolicyFirst {
		return reconcile.NewFirstMatchStatusResolver(repo.Labels)
	}
	return reconcile.NewStatusResolver(repo.Labels)
}

func printSummary(w io.Writer, repo string, summary reconcile.Summary, dryRun bool) {
	for _, outcome := range summary.Outcomes {
		if !outcome.Matched {
			continue
		}
		key := outcome.Match.Key
		changes := reconcile.Describe(key, outcome.Plan)
		if len(changes) > 0 {
			fmt.Fprintf(w, "Changes to %s (#%d):\n", key, outcome.PR.Number)
			for _, change := range changes {
				fmt.Fprintf(w, "  %s\n", change)
			}
		}
		switch {
		case outcome.Err != nil && outcome.Applied:
			fmt.Fprintf(w, "  warning: %v\n", outcome.Err)
		case outcome.Err != nil:
			fmt.Fprintf(w, "  error: %v\n", outcome.Err)
		}
	}

	skipped, unchanged, changed, failed := summary.Counts()
	verb := "updated"
	if dryRun {
		verb = "to update"
	}
	fmt.Fprintf(w, "%s: %d %s, %d unchanged, %d without a key, %d failed\n", repo, changed, verb, unchanged, skipped, failed)
	if dryRun && changed > 0 {
		fmt.Fprintln(w, "(dry run - no changes applied)")
	}
}

func init() {
	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "d", false, "preview changes without applying")
	syncCmd.Flags().BoolVarP(&syncSilent, "silent", "s", false, "don't show desktop notifications")
	syncCmd.Flags().StringVarP(&syncRepo, "repo", "r", "", "sync only this repository (owner/name)")
	syncCmd.Flags().IntVar(&syncConcurrency, "concurrency", 1, "pull requests to process at once")
	rootCmd.AddCommand(syncCmd)
}
