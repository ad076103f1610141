package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/typeordie/internal/config"
	"github.com/dgallion1/typeordie/internal/corpus"
	"github.com/dgallion1/typeordie/internal/excerpt"
	"github.com/dgallion1/typeordie/internal/library"
	"github.com/dgallion1/typeordie/internal/render"
	"github.com/dgallion1/typeordie/internal/source"
)

var version = "0.1.0"

type globalFlags struct {
	verbose     bool
	pdfFallback bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:   "anthology",
		Short: "Inspect and sample anthology files",
		Long: `anthology parses tagged anthology files (plain text, HTML, PDF or DOCX,
optionally xz-compressed) and lets you validate them, dump the parsed
books, print a poem, or draw typing excerpts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log each loaded book")
	rootCmd.PersistentFlags().BoolVar(&g.pdfFallback, "pdftotext", true, "fall back to pdftotext for unreadable PDFs")

	rootCmd.AddCommand(validateCmd(&g))
	rootCmd.AddCommand(excerptCmd(&g))
	rootCmd.AddCommand(dumpCmd(&g))
	rootCmd.AddCommand(showCmd(&g))
	return rootCmd
}

func (g *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	level := "warn"
	if g.verbose {
		level = "info"
	}
	return config.LogConfig{Level: level, Format: "text"}.NewLogger(cmd.ErrOrStderr())
}

func (g *globalFlags) load(cmd *cobra.Command, paths []string, opts ...library.Option) (*library.Library, error) {
	return library.LoadFiles(cmd.Context(), paths, g.logger(cmd), library.LoadConfig{
		Source: source.Options{PDFFallback: g.pdfFallback},
	}, opts...)
}

func validateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Parse each file and report errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				lib, err := g.load(cmd, []string{path})
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					continue
				}
				s := lib.Stats()
				fmt.Fprintf(out, "ok   %s: %d poems, %d lines\n", path, s.Poems, s.Lines)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func excerptCmd(g *globalFlags) *cobra.Command {
	var (
		maxChars int
		width    int
		seed     uint64
		count    int
	)
	def := excerpt.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "excerpt <file>...",
		Short: "Draw random typing excerpts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []library.Option
			if cmd.Flags().Changed("seed") {
				opts = append(opts, library.WithSeed(seed))
			}
			lib, err := g.load(cmd, args, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i := range count {
				if i > 0 {
					fmt.Fprintln(out)
				}
				book, err := lib.RandomBook()
				if err != nil {
					return err
				}
				poem, err := lib.RandomPoem(book)
				if err != nil {
					return err
				}
				lines, err := lib.Excerpt(poem, maxChars, width)
				if err != nil {
					return fmt.Errorf("%s / %s: %w", book.Title, poem.Title, err)
				}
				fmt.Fprintf(out, "# %s / %s / %s\n", book.Title, poem.Section, poem.Title)
				for _, l := range lines {
					fmt.Fprintln(out, l)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxChars, "max-chars", def.MaxChars, "characters taken from the poem")
	cmd.Flags().IntVar(&width, "width", def.MaxCharsPerLine, "maximum characters per output line")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible output")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of excerpts")
	return cmd
}

// dumpBook is the serialized form of a parsed book.
type dumpBook struct {
	Title  string     `json:"title" yaml:"title"`
	Author string     `json:"author,omitempty" yaml:"author,omitempty"`
	Source string     `json:"source" yaml:"source"`
	Digest string     `json:"digest" yaml:"digest"`
	Poems  []dumpPoem `json:"poems" yaml:"poems"`
}

type dumpPoem struct {
	Section string   `json:"section" yaml:"section"`
	Title   string   `json:"title" yaml:"title"`
	Lines   []string `json:"lines" yaml:"lines"`
}

func toDump(b *corpus.Book) dumpBook {
	d := dumpBook{Title: b.Title, Author: b.Author, Source: b.Source, Digest: b.Digest}
	for _, p := range b.Poems {
		d.Poems = append(d.Poems, dumpPoem{Section: p.Section, Title: p.Title, Lines: p.Lines})
	}
	return d
}

func dumpCmd(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump <file>...",
		Short: "Print the parsed books as YAML or JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
			lib, err := g.load(cmd, args)
			if err != nil {
				return err
			}
			var books []dumpBook
			for _, b := range lib.Books() {
				books = append(books, toDump(b))
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(books)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(books); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}

func showCmd(g *globalFlags) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "show <file> <poem-index>",
		Short: "Print one poem as Markdown or HTML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("poem index: %w", err)
			}
			lib, err := g.load(cmd, args[:1])
			if err != nil {
				return err
			}
			book := lib.Books()[0]
			if idx < 0 || idx >= len(book.Poems) {
				return errors.New("poem index out of range")
			}
			poem := book.Poems[idx]

			text := render.Markdown(book, poem, nil)
			if asHTML {
				if text, err = render.HTML(text); err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render HTML instead of Markdown")
	return cmd
}
