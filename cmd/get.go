package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
	"github.com/dt-pm-tools/aha-cli/internal/markdown"
	"github.com/dt-pm-tools/aha-cli/internal/reconcile"
)

var outputDir string

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Fetch a feature or requirement and output as markdown",
	Long:  `Fetches a feature (ENG-123) or requirement (ENG-123-4) by key and converts it to markdown with YAML frontmatter. Writes to stdout by default, or to a file with --output-dir.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToUpper(strings.TrimSpace(args[0]))
		match, ok := reconcile.MatchTitle(key)
		if !ok || match.Key != key {
			return fmt.Errorf("%q is not a feature or requirement key", args[0])
		}

		if err := loadConfig(); err != nil {
			return err
		}

		client := aha.NewClient(appConfig.Aha, newLogger())
		record, err := client.FetchRecord(cmd.Context(), match.Kind, key)
		if err != nil {
			return fmt.Errorf("fetching %s %s: %w", match.Kind, key, err)
		}

		md, err := markdown.Marshal(record, match.Kind)
		if err != nil {
			return fmt.Errorf("converting to markdown: %w", err)
		}

		if outputDir != "" {
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			filename := filepath.Join(outputDir, key+".md")
			if err := os.WriteFile(filename, []byte(md), 0644); err != nil {
				return fmt.Errorf("writing file: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Written to %s\n", filename)
		} else {
			fmt.Print(md)
		}

		return nil
	},
}

func init() {
	getCmd.Flags().StringVar(&outputDir, "output-dir", "", "write output to <dir>/<KEY>.md instead of stdout")
	rootCmd.AddCommand(getCmd)
}
