package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/xray-sync/internal/credential"
	"github.com/nhle/xray-sync/internal/model"
	"github.com/nhle/xray-sync/internal/source/jira"
)

var logoutFlag bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the Jira password or API token in the system keyring",
	Long: `Prompts for the Jira server, user and password or API token, checks them
against the server and stores the password in the system keyring. Later runs
use it whenever JIRA_PASS is not set.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&logoutFlag, "logout", false, "Remove the stored password instead")
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := model.LoadConfig(v, configPath)
	if err != nil {
		return err
	}

	if logoutFlag {
		if cfg.User == "" {
			return fmt.Errorf("missing required configuration: user (JIRA_USER)")
		}
		if err := credential.Delete(credential.JiraKey(cfg.User)); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed stored password for %s\n", cfg.User)
		return nil
	}

	server, user, password := cfg.Server, cfg.User, ""
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base URL").
				Description("Jira server URL (e.g., https://jira.example.com)").
				Placeholder("https://jira.example.com").
				Value(&server).
				Validate(validateURL),
			huh.NewInput().
				Title("User").
				Value(&user).
				Validate(validateRequired("User")),
			huh.NewInput().
				Title("Password or API token").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(validateRequired("Password")),
		),
	)
	if err := form.RunWithContext(cmd.Context()); err != nil {
		return fmt.Errorf("reading credentials: %w", err)
	}

	server = strings.TrimRight(strings.TrimSpace(server), "/")
	client := jira.NewClient(server, user, password, cfg.Timeout, logger)
	name, err := jira.NewAdapter(client).ValidateConnection(cmd.Context())
	if err != nil {
		return err
	}

	if err := credential.Set(credential.JiraKey(user), password); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Logged in to %s as %s; password stored in the keyring.\n", server, name)
	if cfg.Server == "" || cfg.User == "" {
		fmt.Fprintf(os.Stdout, "Set JIRA_SERVER=%s and JIRA_USER=%s for later runs.\n", server, user)
	}
	return nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}
