package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/knex/pkg/knex"
	"github.com/cognicore/knex/pkg/knex/nlp"
)

func newAnalyzeCmd(c *cli) *cobra.Command {
	var (
		asHTML       bool
		keywordsOnly bool
		limit        int
	)
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a document and store the result",
		Long: `Analyze reads a document from the given file, or from stdin when no file
or "-" is given, and prints the stored analysis as JSON.

With --keywords-only the LLM and the store are skipped and only the
keywords and their confidence score are printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			text, err := readInput(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			contentType := "text/plain"
			if asHTML || isHTMLPath(path) {
				contentType = "text/html"
			}

			if keywordsOnly {
				return runKeywords(c, cmd.OutOrStdout(), text, contentType, limit)
			}

			cfg, err := c.load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			a, cleanup, err := buildApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			rec, err := a.knex.Analyze(cmd.Context(), knex.AnalyzeRequest{
				Text:        text,
				ContentType: contentType,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), toOutput(rec))
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "treat input as HTML and strip markup")
	cmd.Flags().BoolVar(&keywordsOnly, "keywords-only", false, "print keywords and confidence only; no LLM, nothing stored")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of keywords with --keywords-only (default 3)")
	return cmd
}

func runKeywords(c *cli, w io.Writer, text, contentType string, limit int) error {
	cfg, err := c.loadWithoutLLM()
	if err != nil {
		return err
	}
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	if contentType == "text/html" {
		if text, err = nlp.StripMarkup(text); err != nil {
			return err
		}
	}

	kws := engine.ExtractN(text, limit)
	return printJSON(w, keywordsOutput{
		Keywords:        kws,
		ConfidenceScore: engine.Confidence(text, kws),
	})
}

func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func isHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}
