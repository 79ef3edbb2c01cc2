// cmd/tools/worker-generator/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"idea-workers/pkg/registry"
)

var rootCmd = &cobra.Command{
	Use:   "worker-generator",
	Short: "Scaffold a job worker package from the activity registry",
	Long: `Reads one activity from configs/activity-registry.json and writes a worker
package (config.go, models.go, handler.go, handler_test.go) under
<out>/<category>/<taskType>. Input and Output structs follow the activity's
JSON schemas; the activity's error codes become sentinel errors.

Example:
  worker-generator --id idea.evaluation.history --out internal/workers`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := cmd.Flags()
		path, _ := f.GetString("path")
		id, _ := f.GetString("id")
		out, _ := f.GetString("out")
		force, _ := f.GetBool("force")

		reg, err := registry.LoadRegistry(path)
		if err != nil {
			return err
		}
		activity, ok := reg.Find(id)
		if !ok {
			return fmt.Errorf("%w: %s", registry.ErrActivityNotFound, id)
		}

		dir, files, err := Generate(*activity, out, force)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "generated %s\n", dir)
		for _, name := range files {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().String("path", "configs/activity-registry.json", "Path to the activity registry")
	rootCmd.Flags().String("id", "", "Activity id to scaffold")
	rootCmd.Flags().String("out", "internal/workers", "Root directory for worker packages")
	rootCmd.Flags().Bool("force", false, "Overwrite existing files")
	rootCmd.MarkFlagRequired("id")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
