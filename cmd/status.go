package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/aha-cli/internal/github"
	"github.com/dt-pm-tools/aha-cli/internal/reconcile"
)

const titleWidth = 50

var (
	statusRepo   string
	statusClosed bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your pull requests and the Aha! keys they map to",
	Long:  `Lists your open (or, with --closed, closed) pull requests with their labels, review checklist progress and the feature or requirement key taken from the title.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if err := appConfig.ValidateGitHub(); err != nil {
			return fmt.Errorf("invalid config: %w\nRun 'aha config' to set up credentials", err)
		}

		repos := appConfig.ReposFor(statusRepo)
		if len(repos) == 0 {
			return fmt.Errorf("no repositories to report on: pass --repo or add repos to the config file")
		}

		client := github.NewClient(appConfig.GitHub, newLogger())
		for _, repo := range repos {
			prs, err := client.ListPullRequests(cmd.Context(), repo.Name, repo.Username, !statusClosed)
			if err != nil {
				return fmt.Errorf("listing pull requests for %s: %w", repo.Name, err)
			}
			fmt.Println(lipgloss.NewStyle().Bold(true).Render(repo.Name))
			if len(prs) == 0 {
				fmt.Println("No pull requests.")
				continue
			}
			fmt.Println(pullRequestTable(prs))
		}
		return nil
	},
}

func pullRequestTable(prs []github.PullRequest) string {
	rows := make([][]string, 0, len(prs))
	for _, pr := range prs {
		key := "-"
		if match, ok := reconcile.MatchTitle(pr.Title); ok {
			key = match.Key
		}
		checklist := "-"
		if checked, total := github.Checklist(pr.Body); total > 0 {
			checklist = fmt.Sprintf("%d/%d", checked, total)
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", pr.Number),
			ansi.Truncate(pr.Title, titleWidth, "…"),
			key,
			strings.Join(pr.Labels, ", "),
			checklist,
			pr.State,
			pr.URL,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("PR", "TITLE", "KEY", "LABELS", "CHECKLIST", "STATE", "URL").
		Rows(rows...).
		String()
}

func init() {
	statusCmd.Flags().StringVarP(&statusRepo, "repo", "r", "", "report only this repository (owner/name)")
	statusCmd.Flags().BoolVar(&statusClosed, "closed", false, "show closed pull requests instead of open ones")
	rootCmd.AddCommand(statusCmd)
}
