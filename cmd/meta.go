/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fulmenhq/coursekit/internal/assets"
	"github.com/fulmenhq/coursekit/internal/meta"
	"github.com/fulmenhq/coursekit/internal/schema"
	"github.com/fulmenhq/coursekit/pkg/logger"
	"github.com/fulmenhq/coursekit/pkg/safeio"
	"github.com/spf13/cobra"
)

func newMetaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Create or refresh meta.yaml records",
		Long: `Meta writes a meta.yaml record into every atomic content folder that should
carry one: lesson folders with notebooks, Assessments/, and Resources/ folders
holding course material.

Authored fields (title, status, due, points, created_at) are preserved.
--refresh and --prune rebuild the notebooks/files lists and imply rewriting
existing records. --dry-run always wins.`,
		Args: cobra.NoArgs,
		RunE: runMeta,
	}

	cmd.Flags().AddFlagSet(selectionFlags())
	cmd.Flags().AddFlagSet(writeFlags())
	cmd.Flags().String("path", "", "Write the record of exactly this folder")
	cmd.Flags().String("assignment", "", "Select one folder by name or NN prefix")
	cmd.Flags().Bool("refresh", false, "Recompute notebooks/files lists")
	cmd.Flags().Bool("prune", false, "Drop list entries for files that no longer exist")
	cmd.Flags().Bool("print", false, "Print records to stdout instead of writing them")
	cmd.MarkFlagsMutuallyExclusive("path", "assignment")
	cmd.MarkFlagsMutuallyExclusive("path", "section")

	cmd.AddCommand(newMetaValidateCommand())
	return cmd
}

func runMeta(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	opts := writeOptions(cmd)
	section, _ := cmd.Flags().GetString("section")
	path, _ := cmd.Flags().GetString("path")
	assignment, _ := cmd.Flags().GetString("assignment")
	refresh, _ := cmd.Flags().GetBool("refresh")
	prune, _ := cmd.Flags().GetBool("prune")
	printOnly, _ := cmd.Flags().GetBool("print")
	if refresh || prune {
		opts.Overwrite = true
	}

	mgr := meta.NewManager(ws.resolver, ws.discoverer, ws.classifier, ws.builder, out)
	w := ws.writer(out, opts)
	folders, err := mgr.Run(ws.contentRoot, w, meta.Options{
		Section:    section,
		Path:       path,
		Assignment: assignment,
		Refresh:    refresh,
		Prune:      prune,
		PrintOnly:  printOnly,
	})
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		fmt.Fprintln(out, "No candidate folders found.")
		return nil
	}

	stats := w.Stats()
	logger.Info("Metadata finished",
		logger.Int("folders", len(folders)),
		logger.Int("created", stats.Created),
		logger.Int("overwrote", stats.Overwrote),
		logger.Int("kept", stats.Kept),
		logger.Int("simulated", stats.Simulated))
	if !printOnly {
		finish(out, w)
	}
	return nil
}

func newMetaValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate existing meta.yaml records against the record schema",
		Args:  cobra.NoArgs,
		RunE:  runMetaValidate,
	}
	cmd.Flags().AddFlagSet(selectionFlags())
	return cmd
}

func runMetaValidate(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	section, _ := cmd.Flags().GetString("section")

	sections, err := ws.resolver.ResolveSections(ws.contentRoot, section)
	if err != nil {
		return err
	}

	total, invalid := 0, 0
	for _, sec := range sections {
		for folder, err := range ws.discoverer.Walk(sec) {
			if err != nil {
				return err
			}
			p := filepath.Join(folder.Path, ws.tables.MetaName)
			if !safeio.Exists(ws.fs, p) {
				continue
			}
			data, err := safeio.ReadFile(ws.fs, p)
			if err != nil {
				return err
			}
			res, err := schema.ValidateYAML(data, assets.MetaRecordSchema)
			if err != nil {
				return err
			}
			total++
			if res.Valid {
				fmt.Fprintf(out, "[ok] %s\n", p)
				continue
			}
			invalid++
			fmt.Fprintf(out, "[invalid] %s\n", p)
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  - %s: %s\n", e.Path, e.Message)
			}
		}
	}

	fmt.Fprintf(out, "%d record(s) checked, %d invalid\n", total, invalid)
	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d metadata records", errValidation, invalid, total)
	}
	return nil
}
