package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/vitaflow/internal/config"
	"github.com/jask/vitaflow/internal/export"
	"github.com/jask/vitaflow/internal/storage"
	"github.com/jask/vitaflow/internal/testdata"
)

func showCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			st, found, err := e.repo.Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !found {
				fmt.Fprintf(out, "No session stored in %s.\n", storage.Describe(e.cfg.Storage))
				return nil
			}
			fmt.Fprintf(out, "Session:    %s\n", orDash(st.ID))
			fmt.Fprintf(out, "Completed:  %t\n", st.Completed)
			fmt.Fprintf(out, "Concerns:   %s\n", joinOrDash(st.PrioritizedConcerns, " > "))
			fmt.Fprintf(out, "Diets:      %s\n", joinOrDash(st.SelectedDiets, ", "))
			fmt.Fprintf(out, "Allergies:  %s\n", joinOrDash(st.SelectedAllergies, ", "))
			fmt.Fprintf(out, "Sun:        %s\n", orDash(string(st.Lifestyle.SunExposure)))
			fmt.Fprintf(out, "Smoking:    %s\n", orDash(string(st.Lifestyle.Smoking)))
			fmt.Fprintf(out, "Alcohol:    %s\n", orDash(string(st.Lifestyle.AlcoholConsumption)))
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinOrDash(items []string, sep string) string {
	return orDash(strings.Join(items, sep))
}

func exportCmd(g *globalFlags) *cobra.Command {
	var format, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored session as json, toml or yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			e, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			st, found, err := e.repo.Load(cmd.Context())
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no session stored in %s", storage.Describe(e.cfg.Storage))
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				file, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			return export.Write(w, f, st)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.JSON), "output format: json, toml or yaml")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func resetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear every stored answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.repo.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s.\n", storage.Describe(e.cfg.Storage))
			return nil
		},
	}
}

func seedCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store a sample completed session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()
			st, err := testdata.Seed(cmd.Context(), e.repo, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded session %s.\n", st.ID)
			return nil
		},
	}
}

func configCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg := config.Default()
			if g.driver != "" {
				cfg.Storage.Driver = g.driver
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
