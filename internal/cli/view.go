package cli

import (
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardPlace/internal/project"
	"github.com/piwi3910/BoardPlace/internal/ui"
)

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <solution.json>",
		Short: "Open a saved solution in the desktop viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := project.LoadSolution(args[0])
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("opening viewer", "path", args[0], "run", sf.Result.RunID)

			ui.ShowSolution(app.NewWithID("com.piwi3910.boardplace"), reportFromFile(sf), args[0])
			return nil
		},
	}
}
