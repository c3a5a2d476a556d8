package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/veralis-ai/concierge-engine/pkg/engine"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat session against the local pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}
}

func runChat() error {
	eng := engine.New(engine.Options{Config: cfg, Logger: logger})

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	faint := color.New(color.Faint)

	bold.Println("Concierge Engine, session de chat")
	faint.Println("Tapez votre message, ou 'quit' pour terminer.")
	fmt.Println()

	var history []interface{}
	lead := make(map[string]interface{})
	scanner := bufio.NewScanner(os.Stdin)

	for {
		cyan.Print("vous> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "quit" || query == "exit" {
			break
		}

		sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		sp.Suffix = " réflexion..."
		sp.Start()

		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		env := eng.Chat(ctx, query, history, lead)
		eng.QualifyLead(ctx, append(history, map[string]interface{}{"role": "user", "text": query}), lead)
		cancel()

		sp.Stop()

		yellow.Print("bot> ")
		fmt.Println(env.Response)
		faint.Printf("     [%s, confiance %.2f", env.Provenance, env.Confidence)
		if category, ok := lead["category"].(string); ok {
			faint.Printf(", lead %s", category)
		}
		faint.Println("]")

		for _, s := range env.Suggestions {
			faint.Printf("     ? %s\n", s)
		}
		fmt.Println()

		history = append(history,
			map[string]interface{}{"role": "user", "text": query},
			map[string]interface{}{"role": "assistant", "text": env.Response},
		)
	}

	if category, ok := lead["category"].(string); ok {
		fmt.Println()
		bold.Printf("Qualification finale: %s", category)
		if score, ok := lead["overall_score"].(float64); ok {
			bold.Printf(" (score %.1f)", score)
		}
		fmt.Println()
	}
	return scanner.Err()
}
