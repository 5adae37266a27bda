/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/coursekit/internal/scaffold"
	"github.com/fulmenhq/coursekit/pkg/logger"
	"github.com/spf13/cobra"
)

func newScaffoldCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Bring proto groups into the canonical layout",
		Long: `Scaffold creates Lessons/, Assessments/ and Resources/ in every proto group
(a group with notebooks directly at its root), writes the reserved files that
are missing, and routes each loose notebook:

  assessment keywords (quiz, exam, ...)   -> Assessments/
  resource keywords (glossary, video, ...) -> Resources/
  anything else                            -> Lessons/NN-Title/

Existing files are never overwritten unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: runScaffold,
	}

	cmd.Flags().AddFlagSet(selectionFlags())
	cmd.Flags().AddFlagSet(writeFlags())
	cmd.Flags().String("group", "", "Scaffold exactly this group folder (path)")
	cmd.Flags().String("group-id", "", "Scaffold the group matching this identifier within --section")
	cmd.Flags().Bool("no-move-artifacts", false, "Leave non-notebook artifacts at the group root")
	cmd.MarkFlagsMutuallyExclusive("group", "group-id")
	return cmd
}

func runScaffold(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	opts := writeOptions(cmd)
	noMove, _ := cmd.Flags().GetBool("no-move-artifacts")
	groupPath, _ := cmd.Flags().GetString("group")
	groupID, _ := cmd.Flags().GetString("group-id")
	section, _ := cmd.Flags().GetString("section")

	engine, err := scaffold.NewEngine(ws.fs, ws.discoverer, ws.classifier, ws.builder)
	if err != nil {
		return err
	}
	w := ws.writer(out, opts)
	explodeOpts := scaffold.Options{MoveArtifacts: !noMove}

	var groups []string
	switch {
	case groupPath != "":
		g, err := ws.resolver.ResolveRoot(groupPath)
		if err != nil {
			return err
		}
		groups = []string{g}
	default:
		sections, err := ws.resolver.ResolveSections(ws.contentRoot, section)
		if err != nil {
			return err
		}
		if groupID != "" {
			if len(sections) != 1 {
				return fmt.Errorf("--group-id needs --section to select exactly one section (%d selected)", len(sections))
			}
			groups, err = ws.resolver.ResolveGroups(sections[0], groupID)
		} else {
			groups, err = ws.discoverer.ProtoGroups(sections)
		}
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Fprintln(out, "No proto groups found.")
			return nil
		}
	}

	for _, g := range groups {
		fmt.Fprintf(out, "[group] %s\n", g)
		if err := engine.ExplodeGroup(g, w, explodeOpts); err != nil {
			return err
		}
	}

	stats := w.Stats()
	logger.Info("Scaffold finished",
		logger.Int("groups", len(groups)),
		logger.Int("dirs", stats.Dirs),
		logger.Int("created", stats.Created),
		logger.Int("moved", stats.Moved),
		logger.Int("kept", stats.Kept),
		logger.Int("simulated", stats.Simulated))
	finish(out, w)
	return nil
}
