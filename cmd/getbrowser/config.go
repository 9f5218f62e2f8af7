package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/config"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/service"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(a.configInitCmd(), a.configShowCmd())
	return cmd
}

func (a *app) configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a config file holding the default settings. Pass --mode to
start from a different mode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if a.flags.mode != "" {
				cfg.Mode = strings.ToLower(strings.TrimSpace(a.flags.mode))
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("--mode: %w", err)
				}
			}

			svc := service.NewConfigInitService(config.NewParser(a.detector), config.NewGenerator())
			res, err := svc.Execute(cmd.Context(), service.InitRequest{
				Path:   a.flags.configPath,
				Config: cfg,
				Force:  force,
			})
			if err != nil {
				return err
			}

			out := struct {
				Path        string `json:"path"`
				Overwritten bool   `json:"overwritten"`
			}{res.Path, res.Overwritten}
			return a.print(out, func(w io.Writer) {
				verb := "Created"
				if res.Overwritten {
					verb = "Replaced"
				}
				fmt.Fprintf(w, "%s %s %s\n", okStyle.Render("✓"), verb, res.Path)
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func (a *app) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := a.loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			out := struct {
				Path   string         `json:"path"`
				Found  bool           `json:"found"`
				Config *config.Config `json:"config"`
			}{loaded.Path, loaded.Found, loaded.Config}

			if a.flags.json {
				return a.print(out, nil)
			}

			lua, err := config.NewGenerator().Generate(loaded.Config)
			if err != nil {
				return err
			}
			return a.print(out, func(w io.Writer) {
				source := loaded.Path
				if !loaded.Found {
					source += mutedStyle.Render(" (not found, using defaults)")
				}
				field(w, "Config", source)
				fmt.Fprintln(w)
				io.WriteString(w, indent(lua, "  "))
			})
		},
	}
}
