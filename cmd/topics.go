package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kenroads/ntsabuddy/internal/curriculum"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the curriculum topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		topics := curriculum.All()

		fmt.Printf("%-12s  %s\n", "ID", "Title")
		fmt.Println(strings.Repeat("─", 48))
		for _, t := range topics {
			fmt.Printf("%-12s  %s %s\n", t.ID, t.Icon, t.Title)
		}

		fmt.Printf("\n%d topics\n", len(topics))
		return nil
	},
}
