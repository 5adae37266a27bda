/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fulmenhq/coursekit/internal/meta"
	"github.com/fulmenhq/coursekit/internal/ops"
	"github.com/fulmenhq/coursekit/internal/scaffold"
	"github.com/fulmenhq/coursekit/pkg/buildinfo"
	"github.com/fulmenhq/coursekit/pkg/exitcode"
	"github.com/fulmenhq/coursekit/pkg/logger"
	"github.com/fulmenhq/coursekit/pkg/pathfinder"
	"github.com/spf13/cobra"
)

var (
	// errConfig marks failures to load or validate configuration.
	errConfig = errors.New("configuration error")
	// errValidation marks metadata records that failed schema validation.
	errValidation = errors.New("validation failed")
)

// newRootCommand creates a fresh root command instance with every subcommand attached.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coursekit",
		Short: "Canonical layout and metadata for course content repositories",
		Long: `Coursekit keeps a course repository in its canonical layout: sections hold
groups, groups hold Lessons/, Assessments/ and Resources/, and every atomic
content folder carries a meta.yaml record.

Examples:
   coursekit list                         # Show sections, groups and proto groups
   coursekit scaffold --dry-run           # Preview scaffolding of every proto group
   coursekit scaffold --section 02        # Scaffold proto groups of section 02
   coursekit meta --refresh               # Rebuild notebook and file lists
   coursekit meta validate                # Check meta.yaml files against the schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("config", "", "Path to a coursekit config file")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("coursekit {{.Version}}\n")

	registerSubcommands(cmd)
	return cmd
}

// registerSubcommands classifies every subcommand and attaches it to root.
func registerSubcommands(root *cobra.Command) {
	reg := ops.NewRegistry()
	for _, c := range []struct {
		group ops.CommandGroup
		cmd   *cobra.Command
	}{
		{ops.GroupContent, newScaffoldCommand()},
		{ops.GroupContent, newMetaCommand()},
		{ops.GroupInspect, newListCommand()},
		{ops.GroupSupport, newConfigCommand()},
		{ops.GroupSupport, newVersionCommand()},
	} {
		if err := reg.Register(c.group, c.cmd, ""); err != nil {
			panic(err)
		}
	}
	reg.Attach(root)
}

// Execute runs the command tree and exits with the code matching the failure.
// This is called by main.main().
func Execute() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		code := exitCodeFor(err)
		logger.Error("Command execution failed", logger.Err(err), logger.String("exit", exitcode.String(code)))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(code)
	}
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	var pathErr *fs.PathError
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, pathfinder.ErrOutsideRoot), errors.Is(err, os.ErrPermission):
		return exitcode.PermissionError
	case errors.Is(err, pathfinder.ErrMissingContainer),
		errors.Is(err, pathfinder.ErrAmbiguous),
		errors.Is(err, pathfinder.ErrNotFound),
		errors.Is(err, meta.ErrNoMatch),
		errors.Is(err, meta.ErrMultipleMatches),
		errors.Is(err, meta.ErrNotAFolder),
		errors.Is(err, scaffold.ErrNotAGroup):
		return exitcode.ResolutionError
	case errors.Is(err, errValidation):
		return exitcode.ValidationError
	case errors.Is(err, errConfig):
		return exitcode.ConfigError
	case errors.As(err, &pathErr):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	noOp := false
	if cmd.Flags().Lookup("dry-run") != nil {
		noOp, _ = cmd.Flags().GetBool("dry-run")
	}

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "coursekit",
		NoOp:      noOp,
	}

	if err := logger.Initialize(config); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}
