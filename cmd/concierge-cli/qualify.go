package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veralis-ai/concierge-engine/internal/qualify"
	"github.com/veralis-ai/concierge-engine/pkg/engine"
)

func newQualifyCmd() *cobra.Command {
	var transcriptPath string

	cmd := &cobra.Command{
		Use:   "qualify",
		Short: "Qualify a conversation transcript (JSON array of turns)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQualify(transcriptPath)
		},
	}
	cmd.Flags().StringVarP(&transcriptPath, "file", "f", "", "path to transcript JSON (defaults to stdin)")
	return cmd
}

func runQualify(path string) error {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = readAllStdin()
	}
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse transcript: %w", err)
	}

	eng := engine.New(engine.Options{Config: cfg, Logger: logger})
	lead := make(map[string]interface{})
	q := eng.QualifyLead(context.Background(), raw, lead)

	printQualification(q)
	return nil
}

func readAllStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
		return nil, fmt.Errorf("no transcript on stdin, use --file")
	}
	return io.ReadAll(os.Stdin)
}

func printQualification(q qualify.Qualification) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	categoryColor := color.New(color.FgRed)
	switch q.Category {
	case qualify.CategoryHot:
		categoryColor = color.New(color.FgGreen, color.Bold)
	case qualify.CategoryWarm:
		categoryColor = color.New(color.FgYellow)
	case qualify.CategoryQualified:
		categoryColor = color.New(color.FgCyan)
	}

	bold.Printf("Score global: %.1f  ", q.OverallScore)
	categoryColor.Printf("[%s]\n", q.Category)
	faint.Printf("Confiance: %.2f\n\n", q.Confidence)

	criteria := []struct {
		name  string
		score qualify.CriterionScore
	}{
		{"Budget", q.BANT.Budget},
		{"Autorité", q.BANT.Authority},
		{"Besoin", q.BANT.Need},
		{"Délai", q.BANT.Timeline},
	}
	for _, c := range criteria {
		fmt.Printf("  %-10s %2d/10 (confiance %.1f)\n", c.name, c.score.Score, c.score.Confidence)
		for _, ev := range c.score.Evidence {
			faint.Printf("             - %s\n", ev)
		}
	}

	if len(q.Insights) > 0 {
		bold.Println("\nAnalyse:")
		for _, s := range q.Insights {
			fmt.Printf("  • %s\n", s)
		}
	}
	if len(q.NextActions) > 0 {
		bold.Println("\nProchaines actions:")
		for _, s := range q.NextActions {
			fmt.Printf("  • %s\n", s)
		}
	}
}
