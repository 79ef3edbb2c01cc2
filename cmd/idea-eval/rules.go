package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the active rule set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("rules")
		rules, err := loadRules(path)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "version\t%s\n", rules.Version)
		for i, tag := range rules.TagOrder() {
			fmt.Fprintf(w, "priority %d\t%s\n", i+1, tag)
		}
		for _, c := range rules.Stage1 {
			fmt.Fprintf(w, "stage1 %s\t%d\n", c.Name, c.Weight)
		}
		for _, c := range rules.Stage2 {
			fmt.Fprintf(w, "stage2 %s\t%d\n", c.Name, c.Weight)
		}
		return w.Flush()
	},
}

func init() {
	rulesCmd.Flags().String("rules", "", "rule file (default: embedded v1 rules)")
	rootCmd.AddCommand(rulesCmd)
}
