package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/aha-cli/internal/aha"
	"github.com/dt-pm-tools/aha-cli/internal/browse"
	"github.com/dt-pm-tools/aha-cli/internal/markdown"
)

var (
	generateRelease string
	generateFeature string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create a feature or requirement from prompts",
	Long: `Asks for a name, a markdown description and (for features) whether release notes
are needed, then creates the record. Use --release to create a feature in a release,
or --feature to create a requirement on a feature.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (generateRelease == "") == (generateFeature == "") {
			return fmt.Errorf("exactly one of --release or --feature is required")
		}
		if err := loadConfig(); err != nil {
			return err
		}

		kind := browse.WizardFeature
		if generateFeature != "" {
			kind = browse.WizardRequirement
		}
		wizard := browse.NewWizard(kind)
		if err := runWizard(wizard, cmd.InOrStdin(), os.Stdout); err != nil {
			return err
		}

		description, err := markdown.ToHTML(wizard.Draft().Description)
		if err != nil {
			return err
		}

		client := aha.NewClient(appConfig.Aha, newLogger())
		var record *aha.Record
		if kind == browse.WizardFeature {
			draft := wizard.FeatureDraft()
			draft.Description = description
			record, err = client.CreateFeature(cmd.Context(), generateRelease, draft)
		} else {
			draft := wizard.RequirementDraft()
			draft.Description = description
			record, err = client.CreateRequirement(cmd.Context(), strings.ToUpper(generateFeature), draft)
		}
		if err != nil {
			return fmt.Errorf("creating %s: %w", kind, err)
		}

		fmt.Printf("Created %s %s", kind, record.ReferenceNum)
		if record.URL != "" {
			fmt.Printf(" (%s)", record.URL)
		}
		fmt.Println()
		return nil
	},
}

// runWizard answers each wizard prompt with one line of input.
func runWizard(wizard *browse.Wizard, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	prompt := wizard.Prompt()
	for !wizard.Done() {
		fmt.Fprintf(out, "%s: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return fmt.Errorf("reading %s: %w", strings.ToLower(prompt), err)
		}
		prompt, _ = wizard.Commit(strings.TrimRight(line, "\r\n"))
	}
	return nil
}

func init() {
	generateCmd.Flags().StringVar(&generateRelease, "release", "", "release id or key to create a feature in")
	generateCmd.Flags().StringVar(&generateFeature, "feature", "", "feature key to create a requirement on")
	rootCmd.AddCommand(generateCmd)
}
