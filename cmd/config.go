package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dt-pm-tools/aha-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure Aha! and GitHub connection settings",
	Long:  `Interactively set up the Aha! domain, workflow email, API tokens and GitHub login. Settings are saved to ~/.aha-cli.yaml; repositories and label overrides are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load existing config for defaults
		cfg, _ := config.Load(cfgFile)

		cfg.Aha.Domain = ask(reader, "Aha! domain (e.g., big for big.aha.io)", cfg.Aha.Domain)
		cfg.Aha.Email = ask(reader, "Workflow email", cfg.Aha.Email)
		token, err := askSecret("Aha! API token", cfg.Aha.Token)
		if err != nil {
			return err
		}
		cfg.Aha.Token = token

		cfg.GitHub.Login = ask(reader, "GitHub login", cfg.GitHub.Login)
		token, err = askSecret("GitHub API token", cfg.GitHub.Token)
		if err != nil {
			return err
		}
		cfg.GitHub.Token = token

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

// ask reads one line, keeping def when the answer is empty.
func ask(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def
	}
	return answer
}

// askSecret reads a token without echoing it.
func askSecret(label, def string) (string, error) {
	fmt.Printf("%s (input hidden): ", label)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	if token := strings.TrimSpace(string(secret)); token != "" {
		return token, nil
	}
	return def, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}
