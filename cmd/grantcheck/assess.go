package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/seykim2025/kgoverment-proj/internal/bootstrap"
	"github.com/seykim2025/kgoverment-proj/internal/config"
	"github.com/seykim2025/kgoverment-proj/internal/core/document"
	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/extractor/pdf"
)

type assessOptions struct {
	noticePath  string
	profilePath string
	title       string
}

func newAssessCmd() *cobra.Command {
	var opts assessOptions
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess a notice against a company profile file without a database",
		Long: `Reads a notice (.pdf or plain text) and a YAML company profile, runs the
configured judgment engine, or the rule-based classifier when none is
configured, and prints the outcome as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssess(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.noticePath, "notice", "", "notice file (.pdf or .txt)")
	cmd.Flags().StringVar(&opts.profilePath, "profile", "", "company profile YAML file")
	cmd.Flags().StringVar(&opts.title, "title", "", "notice title (defaults to the parsed title or file name)")
	_ = cmd.MarkFlagRequired("notice")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func runAssess(cmd *cobra.Command, opts assessOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	company, projects, err := loadProfile(opts.profilePath)
	if err != nil {
		return err
	}
	notice, err := loadNotice(ctx, cfg, opts.noticePath, opts.title)
	if err != nil {
		return err
	}

	assessor, err := bootstrap.NewAssessor(ctx, cfg, nil)
	if err != nil {
		return err
	}
	outcome, err := assessor.Assess(ctx, notice, company, projects)
	if outcome != nil {
		if printErr := printJSON(cmd, outcome); printErr != nil {
			return printErr
		}
	}
	return err
}

func loadProfile(path string) (domain.Company, []domain.Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Company{}, nil, fmt.Errorf("read profile: %w", err)
	}
	var file domain.CompanyProfileFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return domain.Company{}, nil, fmt.Errorf("decode profile %s: %w", path, err)
	}
	company, err := file.Company.ToCompany()
	if err != nil {
		return domain.Company{}, nil, err
	}
	for i, project := range file.Projects {
		if err := project.Validate(); err != nil {
			return domain.Company{}, nil, fmt.Errorf("project %d: %w", i+1, err)
		}
	}
	return company, file.Projects, nil
}

func loadNotice(ctx context.Context, cfg config.Config, path, title string) (domain.Notice, error) {
	raw, err := document.ReadFileLimited(path, cfg.MaxUploadBytes)
	if err != nil {
		return domain.Notice{}, err
	}

	content := string(raw)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		parsed, err := pdf.NewParser(cfg.PDFPageWorkers).Parse(ctx, raw)
		if err != nil {
			return domain.Notice{}, err
		}
		content = parsed.Text
		if title == "" && parsed.Title != nil {
			title = *parsed.Title
		}
	}
	if strings.TrimSpace(title) == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if strings.TrimSpace(content) == "" {
		return domain.Notice{}, errors.New("notice has no text")
	}
	return domain.Notice{Title: title, Content: content}, nil
}
