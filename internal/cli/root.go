package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev" // semantic version, set through SetVersion
	commit  string  // git commit SHA
	date    string  // build timestamp
)

// SetVersion sets the version information displayed by --version. main
// calls it with values injected through ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// NewRootCommand builds the command tree. Logs go to stderr; --verbose
// switches the logger to debug level.
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "BoardPlace finds PCB component placements that satisfy layout rules",
		Long:         `BoardPlace searches for positions of a USB connector, an MCU, its crystal and two mounting blocks on a rectangular board so that every hard placement rule holds, then ranks the feasible layouts by centrality and compactness.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSolveCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newViewCmd())

	return root
}

// Execute runs the CLI with ctx, which main cancels on interrupt.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
