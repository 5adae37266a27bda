/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect coursekit configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Show prints the configuration coursekit uses for --root after merging the
built-in defaults, the first .coursekit.{yaml,yml,toml,json} found, and
COURSEKIT_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: runConfigShow,
	}
	show.Flags().String("root", ".", "Repository root used to locate the config file")
	show.Flags().String("format", "yaml", "Output format (yaml|toml|json)")

	cmd.AddCommand(show)
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	_, cfg, err := loadConfig(cmd, osfs.New("/"))
	if err != nil {
		return err
	}
	return encode(cmd.OutOrStdout(), format, cfg)
}

// encode writes v in one of the supported document formats.
func encode(out io.Writer, format string, v any) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(out).Encode(v)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported format %q (expected yaml, toml or json)", format)
	}
}
