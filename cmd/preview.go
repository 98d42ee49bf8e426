package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kenroads/ntsabuddy/internal/curriculum"
	"github.com/kenroads/ntsabuddy/internal/quiz"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Take a generated quiz in plain text",
	Long: `Generate a quiz for a topic and answer it on stdin.

Useful for checking question quality against a provider without the TUI.
Model calls are still recorded in the event log.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("topic", "", "Topic ID as listed by ntsabuddy topics; empty for the mock exam")
	previewCmd.Flags().String("difficulty", "easy", "Difficulty: easy or hard")
}

func runPreview(cmd *cobra.Command, args []string) error {
	topicID, _ := cmd.Flags().GetString("topic")
	diffVal, _ := cmd.Flags().GetString("difficulty")

	diff, err := quiz.ParseDifficulty(strings.ToLower(diffVal))
	if err != nil {
		return err
	}

	var topic *curriculum.Topic
	if topicID != "" {
		t, ok := curriculum.Lookup(topicID)
		if !ok {
			return fmt.Errorf("no topic found for %q", topicID)
		}
		topic = &t
	}

	d, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer d.Close()

	var engine quiz.Engine
	req := engine.Start(topic, diff)
	fmt.Printf("Subject: %s (%s)\n", req.Subject, diff)
	fmt.Println("Generating questions...")
	fmt.Println()

	engine.Apply(req.Fetch(cmd.Context(), d.tutor))
	if engine.Len() == 0 {
		fmt.Println("No questions could be generated. Check `ntsabuddy llm list` for errors.")
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	for !engine.Completed() {
		q, _ := engine.Current()

		fmt.Printf("── Question %s ──\n", engine.Counter())
		fmt.Println(q.Question)
		for j, opt := range q.Options {
			fmt.Printf("  %d) %s\n", j+1, opt)
		}

		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		correct, accepted := engine.SubmitAnswer(n - 1)
		if err != nil || !accepted {
			fmt.Printf("Enter a number from 1 to %d.\n\n", len(q.Options))
			continue
		}

		if correct {
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Wrong.\033[0m Answer: %s\n", q.Options[q.CorrectAnswerIndex])
		}
		if q.Explanation != "" {
			fmt.Printf("Explanation: %s\n", q.Explanation)
		}
		fmt.Println()
		engine.Advance()
	}

	fmt.Printf("── Summary: %d/%d correct ──\n", engine.Score(), engine.Len())
	if engine.Completed() {
		if engine.Excellent() {
			fmt.Println("Excellent driving! You're ready for the road.")
		} else {
			fmt.Println("Keep studying, you can do better!")
		}
	}
	return nil
}
