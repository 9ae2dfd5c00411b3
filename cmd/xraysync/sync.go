package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/xray-sync/internal/manifest"
	"github.com/nhle/xray-sync/internal/source/jira"
	"github.com/nhle/xray-sync/internal/source/xray"
	"github.com/nhle/xray-sync/internal/sync"
	"github.com/nhle/xray-sync/internal/theme"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the test set and its tests to Jira and Xray",
	Long: `Loads <root>/tests.yml, creates or updates its Jira issue, then for every
referenced test loads <root>/<path>/test.yml, creates or updates its issue and
replaces its Xray test steps. Relative attachment paths are taken from the
test directory; absolute paths are read as written. Issue keys of newly created issues are written back.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, syncCmd} {
		cmd.Flags().StringP("root", "r", ".", "Directory containing tests.yml (XRAYSYNC_ROOT)")
		cmd.Flags().String("test-set-type", "", "Issue type for the test set (default \"Test Set\")")
		cmd.Flags().String("test-type", "", "Issue type for tests (default \"Test Set\")")
		cmd.Flags().Bool("quiet", false, "Do not print the summary")
	}
}

// bindSyncFlags binds the flags of the invoked command, root or sync, onto
// the shared viper instance.
func bindSyncFlags(cmd *cobra.Command) {
	_ = v.BindPFlag("root", cmd.Flags().Lookup("root"))
	_ = v.BindPFlag("issue_types.test_set", cmd.Flags().Lookup("test-set-type"))
	_ = v.BindPFlag("issue_types.test", cmd.Flags().Lookup("test-type"))
}

// runSync executes a full sync run.
func runSync(cmd *cobra.Command, args []string) error {
	bindSyncFlags(cmd)

	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	runLogger := logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("project", cfg.Project),
		zap.String("root", cfg.Root),
	)

	loader, err := manifest.NewOSLoader(cfg.Root)
	if err != nil {
		return err
	}

	client := jira.NewClient(cfg.Server, cfg.User, cfg.Password, cfg.Timeout, runLogger)
	syncer := sync.New(
		loader,
		jira.NewAdapter(client),
		xray.NewAdapter(client),
		sync.Options{
			Project:          cfg.Project,
			TestSetIssueType: cfg.IssueTypes.TestSet,
			TestIssueType:    cfg.IssueTypes.Test,
		},
		runLogger,
	)

	runLogger.Info("starting sync")
	report, runErr := syncer.Run(cmd.Context())

	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		fmt.Fprint(os.Stdout, theme.RenderSummary(report, cfg.Server, runErr))
	}

	return runErr
}
