package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nhle/xray-sync/internal/source/jira"
	"github.com/nhle/xray-sync/internal/theme"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the Jira connection and credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}

		adapter := jira.NewAdapter(newJiraClient(cfg))
		name, err := adapter.ValidateConnection(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Connected to %s as %s\n", cfg.Server, theme.KeyStyle.Render(name))
		return nil
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the issue types of the project and their create fields",
	Long: `Prints the current user, the project, and for every issue type of the
project the fields that can be set when creating an issue. Use it to find the
issue type names to configure under issue_types.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		if cfg.Project == "" {
			return fmt.Errorf("missing required configuration: project (JIRA_PROJECT)")
		}

		ctx := cmd.Context()
		adapter := jira.NewAdapter(newJiraClient(cfg))

		me, err := adapter.Myself(ctx)
		if err != nil {
			return fmt.Errorf("fetching current user: %w", err)
		}
		project, err := adapter.GetProject(ctx, cfg.Project)
		if err != nil {
			return err
		}
		byType, err := adapter.ProjectIssueFields(ctx, cfg.Project)
		if err != nil {
			return err
		}

		out := os.Stdout
		fmt.Fprintf(out, "User:    %s (%s)\n", me.DisplayName, me.Name)
		fmt.Fprintf(out, "Project: %s %s\n", theme.KeyStyle.Render(project.Key), project.Name)
		typeNames := make([]string, 0, len(byType))
		for name := range byType {
			typeNames = append(typeNames, name)
		}
		sort.Strings(typeNames)

		for _, typeName := range typeNames {
			fields := byType[typeName]
			fmt.Fprintf(out, "\n%s\n", theme.HeaderStyle.Render(typeName))
			for _, id := range jira.SortedFieldIDs(fields) {
				f := fields[id]
				required := ""
				if f.Required {
					required = theme.HelpStyle.Render(" (required)")
				}
				fmt.Fprintf(out, "  %-24s %s%s\n", id, f.Name, required)
			}
		}
		return nil
	},
}
