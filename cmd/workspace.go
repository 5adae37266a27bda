/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fulmenhq/coursekit/internal/actions"
	"github.com/fulmenhq/coursekit/internal/classify"
	"github.com/fulmenhq/coursekit/internal/discovery"
	"github.com/fulmenhq/coursekit/internal/meta"
	"github.com/fulmenhq/coursekit/pkg/config"
	"github.com/fulmenhq/coursekit/pkg/ignore"
	"github.com/fulmenhq/coursekit/pkg/logger"
	"github.com/fulmenhq/coursekit/pkg/pathfinder"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// selectionFlags are shared by every command that works on a selection of the tree.
func selectionFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("selection", pflag.ContinueOnError)
	fs.String("root", ".", "Repository root, or the content folder itself")
	fs.String("section", "", "Section identifier: exact name, two-digit number, or unique substring")
	return fs
}

// writeFlags are shared by every command that creates files.
func writeFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("write", pflag.ContinueOnError)
	fs.Bool("dry-run", false, "Report every action without touching the filesystem")
	fs.Bool("force", false, "Overwrite existing files")
	fs.Bool("show-existing", false, "Print a [keep] line for files left untouched")
	return fs
}

// workspace bundles the engine components wired for one repository.
type workspace struct {
	fs          billy.Filesystem
	config      *config.Config
	tables      config.Tables
	resolver    *pathfinder.Resolver
	classifier  *classify.Classifier
	discoverer  *discovery.Discoverer
	builder     *meta.Builder
	root        string
	contentRoot string
}

// openWorkspace resolves --root, loads configuration and wires the engine.
func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	fs := osfs.New("/")
	root, cfg, err := loadConfig(cmd, fs)
	if err != nil {
		return nil, err
	}
	tables := cfg.Tables()

	resolver := pathfinder.NewResolver(fs, tables)
	contentRoot, err := resolver.ResolveContentRoot(root)
	if err != nil {
		return nil, err
	}
	repoRoot := filepath.Dir(contentRoot)

	matcher, err := ignore.NewMatcher(fs, repoRoot, tables.IgnoreFile)
	if err != nil {
		return nil, err
	}
	if p := matcher.Patterns(); len(p) > 0 {
		logger.Debug("Loaded ignore patterns", logger.String("file", tables.IgnoreFile), logger.Int("count", len(p)))
	}

	cls := classify.New(tables)
	ws := &workspace{
		fs:          fs,
		config:      cfg,
		tables:      tables,
		resolver:    resolver,
		classifier:  cls,
		discoverer:  discovery.New(resolver, cls, discovery.WithIgnore(matcher)),
		builder:     meta.NewBuilder(tables),
		root:        repoRoot,
		contentRoot: contentRoot,
	}
	logger.Debug("Resolved workspace", logger.String("root", repoRoot), logger.String("content", contentRoot))
	return ws, nil
}

// loadConfig resolves --root and loads the configuration that applies to it.
// Config files are searched in the root, its parent and the working directory.
func loadConfig(cmd *cobra.Command, fs billy.Filesystem) (string, *config.Config, error) {
	rootFlag, _ := cmd.Flags().GetString("root")
	configFile, _ := cmd.Flags().GetString("config")

	root, err := pathfinder.NewResolver(fs, config.DefaultTables()).ResolveRoot(rootFlag)
	if err != nil {
		return "", nil, err
	}

	searchDirs := []string{root, filepath.Dir(root)}
	if wd, err := os.Getwd(); err == nil {
		searchDirs = append(searchDirs, wd)
	}
	cfg, err := config.LoadConfig(config.LoadOptions{ConfigFile: configFile, SearchDirs: searchDirs})
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", errConfig, err)
	}
	return root, cfg, nil
}

// writer returns an ActionWriter confined to the content root.
func (ws *workspace) writer(out io.Writer, opts actions.Options) *actions.Writer {
	return actions.NewWriter(ws.fs, ws.resolver, ws.contentRoot, out, opts)
}

// writeOptions reads the shared write flags.
func writeOptions(cmd *cobra.Command) actions.Options {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")
	showExisting, _ := cmd.Flags().GetBool("show-existing")
	return actions.Options{Simulate: dryRun, Overwrite: force, ShowExisting: showExisting}
}

func finish(out io.Writer, w *actions.Writer) {
	if w.Options().Simulate {
		fmt.Fprintln(out, "Dry-run complete.")
		return
	}
	fmt.Fprintln(out, "Done.")
}
