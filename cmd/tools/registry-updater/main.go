// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"idea-workers/pkg/registry"
)

var registryPath string

var rootCmd = &cobra.Command{
	Use:   "registry-updater",
	Short: "Maintain the activity registry",
	Long: `Adds, updates and validates entries of configs/activity-registry.json, the
list of BPMN service tasks the idea workers implement.

Examples:
  registry-updater add --id idea.submission.load --display-name "Load Submission" \
    --description "Reads a submission by id" --category ideas --task-type load-submission
  registry-updater update --id idea.submission.load --field status --value verified
  registry-updater validate --path configs/activity-registry.json`,
	SilenceUsage: true,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new activity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := cmd.Flags()
		a := registry.Activity{
			InputSchema:  map[string]interface{}{},
			OutputSchema: map[string]interface{}{},
			ErrorCodes:   []string{},
			Workflows:    []string{},
			Tags:         []string{},
		}
		a.ID, _ = f.GetString("id")
		a.DisplayName, _ = f.GetString("display-name")
		a.Description, _ = f.GetString("description")
		a.Category, _ = f.GetString("category")
		a.TaskType, _ = f.GetString("task-type")
		a.Version, _ = f.GetString("version")
		a.ImplementationStatus, _ = f.GetString("status")
		a.Timeout, _ = f.GetString("timeout")
		a.Retries, _ = f.GetInt("retries")
		if codes, _ := f.GetStringSlice("error-codes"); len(codes) > 0 {
			a.ErrorCodes = codes
		}

		reg, err := registry.LoadOrNew(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.Add(a); err != nil {
			return err
		}
		if err := registry.SaveRegistry(reg, registryPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", a.ID)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update one field of an activity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		field, _ := cmd.Flags().GetString("field")
		value, _ := cmd.Flags().GetString("value")

		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.Update(id, field, value); err != nil {
			return err
		}
		if err := registry.SaveRegistry(reg, registryPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", id, field, value)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the registry file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.Validate(); err != nil {
			return fmt.Errorf("registry validation failed:\n%w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&registryPath, "path", "configs/activity-registry.json", "path to registry file")

	f := addCmd.Flags()
	f.String("id", "", "activity ID (domain.subdomain.action)")
	f.String("display-name", "", "display name")
	f.String("description", "", "description")
	f.String("category", "", "category (e.g. ideas, evaluation)")
	f.String("task-type", "", "Zeebe task type")
	f.String("version", "1.0.0", "activity version")
	f.String("status", registry.StatusPlanned, "implementation status (planned, in-progress, completed, verified)")
	f.String("timeout", "10s", "job timeout")
	f.Int("retries", 0, "retry count")
	f.StringSlice("error-codes", nil, "comma-separated BPMN error codes")
	for _, name := range []string{"id", "display-name", "description", "category", "task-type"} {
		_ = addCmd.MarkFlagRequired(name)
	}

	u := updateCmd.Flags()
	u.String("id", "", "activity ID to update")
	u.String("field", "", "field to update (status, version, displayName, description, category, taskType, timeout, retries)")
	u.String("value", "", "new value")
	for _, name := range []string{"id", "field", "value"} {
		_ = updateCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(addCmd, updateCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
