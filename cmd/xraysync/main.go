package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nhle/xray-sync/internal/credential"
	"github.com/nhle/xray-sync/internal/model"
	"github.com/nhle/xray-sync/internal/source/jira"
)

var (
	version = "dev"

	// Global flags
	verbose    bool
	configPath string
	envFile    string

	v      = model.NewViper()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "xraysync",
	Short: "Push local test manifests to Jira and Xray",
	Long: `xraysync reads a tests.yml test-set manifest and the test.yml manifests it
references, makes sure each one is backed by a Jira issue, updates the issue
summary and description when they changed locally, and replaces the Xray test
steps of every test with the local ones. Newly created issue keys are written
back into the manifests.

Connection settings come from JIRA_SERVER, JIRA_USER, JIRA_PASS and
JIRA_PROJECT, from a .env file, or from --config.

Run without a subcommand to sync.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runSync,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a dotenv file (ignored if missing)")
	rootCmd.PersistentFlags().String("server", "", "Jira base URL (JIRA_SERVER)")
	rootCmd.PersistentFlags().String("user", "", "Jira user (JIRA_USER)")
	rootCmd.PersistentFlags().String("project", "", "Jira project key (JIRA_PROJECT)")
	rootCmd.PersistentFlags().Duration("timeout", model.DefaultTimeout, "HTTP request timeout")

	for _, name := range []string{"server", "user", "project", "timeout"} {
		_ = v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(fieldsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadConfig resolves the configuration and the password. With full set,
// the project and test-set root are required as well.
func loadConfig(full bool) (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(v, configPath)
	if err != nil {
		return nil, err
	}

	validate := cfg.ValidateConnection
	if full {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		return nil, err
	}

	cfg.Password, err = credential.ResolvePassword(cfg.User, cfg.Password)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newJiraClient builds the HTTP client shared by the Jira and Xray adapters.
func newJiraClient(cfg *model.AppConfig) *jira.Client {
	return jira.NewClient(cfg.Server, cfg.User, cfg.Password, cfg.Timeout, logger)
}
