package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kenroads/ntsabuddy/internal/app"
	"github.com/kenroads/ntsabuddy/internal/controller"
	"github.com/kenroads/ntsabuddy/internal/study"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer d.Close()

	skip, _ := cmd.Flags().GetBool("skip-welcome")
	ctrl := controller.New(cmd.Context(), study.New(), controller.Providers{
		Content:      d.tutor,
		Questions:    d.tutor,
		Conversation: d.tutor,
	}, d.log)

	return app.Run(app.Options{
		Controller:  ctrl,
		Status:      d.status(),
		SkipWelcome: skip,
	})
}
