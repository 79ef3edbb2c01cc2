package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"idea-workers/internal/common/config"
	"idea-workers/internal/common/genai"
	"idea-workers/internal/common/validation"
	"idea-workers/internal/evaluation"
	"idea-workers/internal/models"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one submission file",
	Long: `Reads a submission JSON document, checks it against the submission schema
and prints the evaluation.

Examples:
  # Evaluate with the embedded v1 rules
  idea-eval evaluate --file submission.json

  # Evaluate with a custom rule file and the suggestion fallback
  idea-eval evaluate --file submission.json --rules rules/v2.yaml --suggest-url http://localhost:8000`,
	RunE: runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.String("file", "", "submission JSON file (- for stdin)")
	f.String("rules", "", "rule file (default: embedded v1 rules)")
	f.String("suggest-url", "", "priority suggestion service base URL")
	f.Duration("suggest-timeout", 5*time.Second, "suggestion service timeout")
	f.Bool("compact", false, "print compact JSON")
	_ = evaluateCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	rulesPath, _ := cmd.Flags().GetString("rules")
	suggestURL, _ := cmd.Flags().GetString("suggest-url")
	suggestTimeout, _ := cmd.Flags().GetDuration("suggest-timeout")
	compact, _ := cmd.Flags().GetBool("compact")

	raw, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	validator, err := validation.NewSubmissionValidator()
	if err != nil {
		return err
	}
	result, err := validator.ValidateJSON(raw)
	if err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	if !result.Valid {
		return fmt.Errorf("invalid submission: %s", strings.Join(result.GetErrorMessages(), "; "))
	}

	var submission models.Submission
	if err := json.Unmarshal(raw, &submission); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	rules, err := loadRules(rulesPath)
	if err != nil {
		return err
	}

	var suggester evaluation.Suggester
	if suggestURL != "" {
		suggester = genai.NewClient(config.SuggestAPIConfig{
			BaseURL:    suggestURL,
			Timeout:    int(suggestTimeout.Milliseconds()),
			MaxRetries: 1,
		}, evaluation.MaxPriorityTags, log)
	}
	engine := evaluation.NewEngine(&evaluation.Config{
		SuggestFallback: suggester != nil,
		SuggestTimeout:  suggestTimeout,
	}, rules, suggester, log)

	ev := engine.Evaluate(cmd.Context(), &submission)

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(ev)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func loadRules(path string) (*evaluation.RuleSet, error) {
	if path == "" {
		return evaluation.DefaultRules()
	}
	return evaluation.LoadRules(path)
}
