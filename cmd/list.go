/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fulmenhq/coursekit/internal/discovery"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sections, groups and metadata candidates",
		Long: `List prints the resolved content folder, every selected section with its
groups (proto groups are flagged), and optionally every folder that should
carry a meta.yaml record together with its role.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	cmd.Flags().AddFlagSet(selectionFlags())
	cmd.Flags().Bool("candidates", false, "Also list metadata candidate folders")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	section, _ := cmd.Flags().GetString("section")
	withCandidates, _ := cmd.Flags().GetBool("candidates")

	sections, err := ws.resolver.ResolveSections(ws.contentRoot, section)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Content: %s\n", ws.contentRoot)
	for _, sec := range sections {
		groups, err := ws.discoverer.Groups([]string{sec})
		if err != nil {
			return err
		}
		names := make([]string, len(groups))
		for i, g := range groups {
			names[i] = filepath.Base(g)
		}
		width := maxWidth(names)

		fmt.Fprintf(out, "%s\n", filepath.Base(sec))
		for i, g := range groups {
			proto, err := ws.discoverer.IsProtoGroup(g)
			if err != nil {
				return err
			}
			if proto {
				fmt.Fprintf(out, "  %s  [proto]\n", runewidth.FillRight(names[i], width))
				continue
			}
			fmt.Fprintf(out, "  %s\n", names[i])
		}
	}

	if !withCandidates {
		return nil
	}
	candidates, err := ws.discoverer.CandidateFolders(sections)
	if err != nil {
		return err
	}
	printCandidates(out, ws.contentRoot, candidates)
	return nil
}

func printCandidates(out io.Writer, contentRoot string, candidates []discovery.Candidate) {
	fmt.Fprintln(out, "Candidates:")
	if len(candidates) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	roles := make([]string, len(candidates))
	for i, c := range candidates {
		roles[i] = string(c.Role)
	}
	width := maxWidth(roles)
	for i, c := range candidates {
		rel, err := filepath.Rel(contentRoot, c.Path)
		if err != nil {
			rel = c.Path
		}
		fmt.Fprintf(out, "  %s  %s\n", runewidth.FillRight(roles[i], width), rel)
	}
}

// maxWidth is the widest display width among names.
func maxWidth(names []string) int {
	w := 0
	for _, n := range names {
		if sw := runewidth.StringWidth(n); sw > w {
			w = sw
		}
	}
	return w
}
