package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"bibliotech/internal/spreadsheet"
	"bibliotech/pkg/container"
)

// ValidFormats are the accepted values of --format.
var ValidFormats = []string{"text", "json"}

// RootOptions holds the global flags.
type RootOptions struct {
	Format string

	// build returns a started container; replaced in tests.
	build func(ctx context.Context) (*container.Container, error)
}

// NewRootCommand creates the bibliotech command line.
func NewRootCommand() *cobra.Command {
	return newRootCommand(container.NewContainer)
}

func newRootCommand(build func(ctx context.Context) (*container.Container, error)) *cobra.Command {
	opts := &RootOptions{build: build}

	cmd := &cobra.Command{
		Use:   "bibliotech",
		Short: "Import and export the author and book lists",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Add the authors and books of a workbook",
		Long: `Add every row of the Authors and Books sheets through the remote store.

Books name their author by first and last name; authors that do not exist
yet are created. Rows that fail are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write both lists to a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}
}

func runImport(ctx context.Context, opts *RootOptions, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	c, err := opts.build(ctx)
	if err != nil {
		return err
	}
	defer c.Cleanup()

	report, err := spreadsheet.NewImporter(c.Session.Authors(), c.Session.Books()).Import(ctx, f)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return json.NewEncoder(out).Encode(report)
	}
	fmt.Fprintf(out, "authors added: %d\nbooks added: %d\n", report.AuthorsAdded, report.BooksAdded)
	for _, re := range report.Errors {
		fmt.Fprintf(out, "%s row %d: %s\n", re.Sheet, re.Row, re.Message)
	}
	for _, re := range report.Skipped {
		fmt.Fprintf(out, "%s row %d skipped: %s\n", re.Sheet, re.Row, re.Message)
	}
	return nil
}

func runExport(ctx context.Context, opts *RootOptions, path string, out io.Writer) error {
	c, err := opts.build(ctx)
	if err != nil {
		return err
	}
	defer c.Cleanup()

	authors := c.Session.AuthorsPage().Export()
	books := c.Session.BooksPage().Export()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := spreadsheet.Export(f, authors, books); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if opts.Format == "json" {
		return json.NewEncoder(out).Encode(map[string]any{"file": path, "authors": len(authors), "books": len(books)})
	}
	fmt.Fprintf(out, "exported %d authors and %d books to %s\n", len(authors), len(books), path)
	return nil
}
