package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seykim2025/kgoverment-proj/internal/config"
	"github.com/seykim2025/kgoverment-proj/internal/core/document"
	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/extractor/pdf"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <notice.pdf>",
		Short: "Print the parsed text and sections of a notice PDF as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !strings.EqualFold(filepath.Ext(args[0]), ".pdf") {
				return fmt.Errorf("%s: only .pdf files can be parsed", args[0])
			}
			data, err := document.ReadFileLimited(args[0], cfg.MaxUploadBytes)
			if err != nil {
				return err
			}
			parsed, err := pdf.NewParser(cfg.PDFPageWorkers).Parse(cmd.Context(), data)
			if err != nil {
				return err
			}
			return printJSON(cmd, struct {
				Document domain.ParsedDocument `json:"document"`
				Sections domain.NoticeSections `json:"sections"`
			}{parsed, document.ExtractSections(parsed.Text)})
		},
	}
}

func printJSON(cmd *cobra.Command, payload any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(payload)
}
