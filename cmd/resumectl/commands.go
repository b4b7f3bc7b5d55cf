package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/extract"
	"resume-builder/internal/llm"
	"resume-builder/internal/shared/config"
	"resume-builder/resume/ats"
	"resume-builder/resume/defaults"
	"resume-builder/resume/export"
	"resume-builder/resume/model"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "resumectl",
		Short:        "Work with resume JSON files from the command line",
		SilenceUsage: true,
	}
	root.AddCommand(
		newExportCmd(),
		newScoreCmd(),
		newValidateCmd(),
		newSummaryCmd(),
		newSampleCmd(),
	)
	return root
}

type exportOptions struct {
	in         string
	outDir     string
	formats    []string
	template   string
	chromePath string
	timeout    time.Duration
}

func newExportCmd() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a resume JSON file to PDF, DOCX and HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.in, "in", "", "resume JSON file")
	cmd.Flags().StringVar(&opts.outDir, "out", "./out", "output directory")
	cmd.Flags().StringSliceVar(&opts.formats, "format", []string{"pdf", "docx", "html"}, "formats to export")
	cmd.Flags().StringVar(&opts.template, "template", string(model.TemplateModern), "layout template id")
	cmd.Flags().StringVar(&opts.chromePath, "chrome", os.Getenv("CHROME_PATH"), "headless Chrome binary for PDF capture")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "capture timeout per page")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runExport(ctx context.Context, out io.Writer, opts exportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := readResume(opts.in)
	if err != nil {
		return err
	}
	formats := make([]export.Format, 0, len(opts.formats))
	for _, raw := range opts.formats {
		f, err := export.ParseFormat(raw)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}

	var capturer export.Capturer
	for _, f := range formats {
		if f == export.FormatPDF {
			capturer = export.NewChromeCapturer(opts.chromePath, opts.timeout)
			break
		}
	}
	exporter := export.NewExporter(capturer)
	tmpl, _ := defaults.TemplateByID(model.TemplateID(opts.template))

	written := make([]string, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			art, err := exporter.Export(gctx, f, data, tmpl.ID)
			if err != nil {
				return err
			}
			path := filepath.Join(opts.outDir, art.Filename)
			if err := os.WriteFile(path, art.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			written[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return nil
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score FILE",
		Short: "Score a PDF, DOCX, text or resume JSON file with the ATS heuristic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := fileText(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ats.Score(text))
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a resume JSON file against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := readResume(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

func newSummaryCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "summary FILE",
		Short: "Draft a professional summary with the configured text generator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			data, err := readResume(args[0])
			if err != nil {
				return err
			}
			gen, closers, err := bootstrap.NewGenerator(ctx, config.Load())
			if err != nil {
				return err
			}
			defer func() {
				for _, c := range closers {
					c.Close()
				}
			}()

			req := llm.Request{Prompt: llm.SummaryPrompt(data), MaxTokens: llm.SummaryMaxTokens}
			resp, err := gen.Generate(ctx, req.WithDefaults(llm.DefaultModel))
			if err != nil {
				return err
			}
			summary := strings.TrimSpace(resp.GeneratedText)
			if !write {
				fmt.Fprintln(cmd.OutOrStdout(), summary)
				return nil
			}
			data.PersonalInfo.Summary = summary
			raw, err := model.ExportJSON(data)
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], raw, 0o644)
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "store the summary back into FILE")
	return cmd
}

func newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print a sample resume JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := model.ExportJSON(sampleResume())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
			return err
		},
	}
}

func readResume(path string) (model.ResumeData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.ResumeData{}, err
	}
	data, err := model.ImportJSON(raw)
	if err != nil {
		return model.ResumeData{}, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// fileText reads resume JSON through the model and everything else through extract.
func fileText(ctx context.Context, path string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := readResume(path)
		if err != nil {
			return "", err
		}
		return ats.Text(data), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return extract.Text(ctx, raw, "", filepath.Base(path))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sampleResume() model.ResumeData {
	years := 6.0
	data := defaults.NewResumeData()
	data.PersonalInfo = model.PersonalInfo{
		FirstName: "Jordan",
		LastName:  "Rivera",
		Email:     "jordan.rivera@example.com",
		Phone:     "+1 555 010 2020",
		Address:   "Austin, TX",
		LinkedIn:  "linkedin.com/in/jordanrivera",
		Summary:   "Backend engineer with experience building reliable services and data pipelines.",
	}
	data.WorkExperience = []model.WorkExperience{{
		ID:               defaults.NewID(),
		Company:          "Northwind Labs",
		Position:         "Senior Software Engineer",
		StartDate:        "2019-03",
		CurrentlyWorking: true,
		Description:      "Own the billing platform and its event pipeline.",
		Achievements: []string{
			"Cut invoice generation time from hours to minutes",
			"Led the migration of 40 services to a shared deployment pipeline",
		},
	}}
	data.Education = []model.Education{{
		ID:           defaults.NewID(),
		Institution:  "University of Texas",
		Degree:       "B.S.",
		FieldOfStudy: "Computer Science",
		StartDate:    "2011-08",
		EndDate:      "2015-05",
	}}
	data.Skills = []model.Skill{
		{ID: defaults.NewID(), Name: "Go", Level: model.LevelExpert, Category: "Technical", YearsOfExperience: &years},
		{ID: defaults.NewID(), Name: "PostgreSQL", Level: model.LevelAdvanced, Category: "Technical"},
	}
	data.Projects = []model.Project{{
		ID:           defaults.NewID(),
		Name:         "ledger",
		Description:  "Double-entry accounting library",
		Technologies: []string{"Go", "PostgreSQL"},
		StartDate:    "2021-01",
	}}
	data.Certifications = []model.Certification{{
		ID:        defaults.NewID(),
		Name:      "AWS Solutions Architect",
		Issuer:    "Amazon Web Services",
		IssueDate: "2022-06",
	}}
	return data
}
