package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardPlace/internal/model"
	"github.com/piwi3910/BoardPlace/internal/project"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage run configuration files",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newPresetCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write the default run configuration as TOML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := project.SaveRunConfig(path, project.DefaultRunConfig()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote default configuration")
			printFile(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved presets",
		Long: `Presets store a board, its component footprints and the search settings
under a name in ~/.boardplace/presets.json. Solve one with --preset.`,
	}
	cmd.AddCommand(newPresetSaveCmd())
	cmd.AddCommand(newPresetListCmd())
	cmd.AddCommand(newPresetRemoveCmd())
	return cmd
}

func newPresetSaveCmd() *cobra.Command {
	var configPath, description string

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a run configuration (or the defaults) as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := project.DefaultRunConfig()
			if configPath != "" {
				var err error
				if cfg, err = project.LoadRunConfig(configPath); err != nil {
					return err
				}
			}
			board, components, settings, err := cfg.Resolve()
			if err != nil {
				return err
			}
			if err := model.Validate(board, components, settings); err != nil {
				return err
			}

			path := project.DefaultPresetPath()
			store, err := project.LoadPresets(path)
			if err != nil {
				return err
			}
			store.Put(model.NewPreset(args[0], description, board, components, settings))
			if err := project.SavePresets(path, store); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Saved preset %s", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML run configuration to capture")
	cmd.Flags().StringVarP(&description, "description", "d", "", "preset description")
	return cmd
}

func newPresetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadPresets(project.DefaultPresetPath())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(store.Presets) == 0 {
				printInfo(out, "No presets saved")
				return nil
			}

			rows := make([][]string, 0, len(store.Presets))
			for _, p := range store.Presets {
				rows = append(rows, []string{
					p.Name,
					p.ID,
					fmt.Sprintf("%g x %g", p.Board.Width, p.Board.Height),
					string(p.Settings.Strategy),
					p.UpdatedAt,
					p.Description,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "ID", "Board", "Strategy", "Updated", "Description"}, rows))
			return nil
		},
	}
}

func newPresetRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete a saved preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := project.DefaultPresetPath()
			store, err := project.LoadPresets(path)
			if err != nil {
				return err
			}
			p := store.FindByName(args[0])
			if p == nil {
				return fmt.Errorf("no preset named %q", args[0])
			}
			store.Remove(p.ID)
			if err := project.SavePresets(path, store); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Removed preset %s", args[0])
			return nil
		},
	}
}
