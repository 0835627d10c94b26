package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/nikogura/portfolio/pkg/config"
	"github.com/nikogura/portfolio/pkg/portfolio"
	"github.com/nikogura/portfolio/pkg/resume"
	"github.com/nikogura/portfolio/pkg/sink"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// resumeTimeout bounds loading plus delivery.
const resumeTimeout = 2 * time.Minute

//nolint:gochecknoglobals // Cobra boilerplate
var resumeSource string

//nolint:gochecknoglobals // Cobra boilerplate
var resumeOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var resumeMinLoading time.Duration

//nolint:gochecknoglobals // Cobra boilerplate
var previewNoOpen bool

//nolint:gochecknoglobals // Cobra boilerplate
var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Generate the plain-text resume",
	Long: `Generate a plain-text resume from the portfolio document.

The document is read from data_source in the config, or from --source which
may be a file path or an http(s) URL. A site root URL is resolved to
/data/portfolio_structured.json.

Example:
  portfolio resume download --source ./portfolio_structured.json
  portfolio resume preview --source https://jane.example.com
  portfolio resume print > resume.txt`,
}

//nolint:gochecknoglobals // Cobra boilerplate
var resumeDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Save <Name>_Resume.txt to the output directory",
	Args:  cobra.NoArgs,
	RunE:  runResumeDownload,
}

//nolint:gochecknoglobals // Cobra boilerplate
var resumePreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Write a print-ready HTML preview and open it",
	Args:  cobra.NoArgs,
	RunE:  runResumePreview,
}

//nolint:gochecknoglobals // Cobra boilerplate
var resumePrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Write the resume text to stdout",
	Args:  cobra.NoArgs,
	RunE:  runResumePrint,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(resumeDownloadCmd, resumePreviewCmd, resumePrintCmd)

	resumeCmd.PersistentFlags().StringVar(&resumeSource, "source", "", "Portfolio file path or URL (default from config)")
	resumeCmd.PersistentFlags().DurationVar(&resumeMinLoading, "min-loading", -1, "Minimum time the loading screen is shown (default from config)")

	resumeDownloadCmd.Flags().StringVar(&resumeOutputDir, "output-dir", "", "Output directory (default from config)")
	resumePreviewCmd.Flags().StringVar(&resumeOutputDir, "output-dir", "", "Output directory (default from config)")
	resumePreviewCmd.Flags().BoolVar(&previewNoOpen, "no-open", false, "Write the preview without opening a browser")
}

// generateResume loads the document and renders the resume text.
func generateResume(ctx context.Context, quiet bool) (cfg config.Config, doc *portfolio.Document, text string, err error) {
	cfg, err = loadConfig(resumeSource)
	if err != nil {
		return cfg, doc, text, err
	}

	minDisplay := resumeMinLoading
	if minDisplay < 0 {
		minDisplay, err = cfg.MinDisplayDuration()
		if err != nil {
			return cfg, doc, text, err
		}
		if cfg.Loader.MinDisplay == "" {
			minDisplay = portfolio.DefaultMinDisplay
		}
	}

	doc, err = loadDocument(ctx, cfg.DataSource, minDisplay, quiet)
	if err != nil {
		return cfg, doc, text, err
	}

	text, err = resume.Generate(doc)
	if err != nil {
		err = errors.Wrap(err, "failed to generate resume")
		return cfg, doc, text, err
	}

	return cfg, doc, text, err
}

// getOutputDir returns the output directory from flag or config.
func getOutputDir(cfg config.Config) (dir string) {
	dir = resumeOutputDir
	if dir == "" {
		dir = cfg.Defaults.OutputDir
	}
	return dir
}

func runResumeDownload(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), resumeTimeout)
	defer cancel()

	cfg, doc, text, err := generateResume(ctx, false)
	if err != nil {
		return err
	}

	fileSink := sink.NewFileSink(getOutputDir(cfg))

	var path string
	path, err = fileSink.Deliver(ctx, resume.Filename(doc.PersonalInfo.Name), text)
	if err != nil {
		err = errors.Wrap(err, "failed to save resume")
		return err
	}

	fmt.Printf("✓ Resume saved to %s\n", path)
	return err
}

func runResumePreview(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), resumeTimeout)
	defer cancel()

	cfg, doc, text, err := generateResume(ctx, false)
	if err != nil {
		return err
	}

	var opener sink.Opener = sink.BrowserOpener{}
	if previewNoOpen {
		opener = sink.NopOpener{}
	}

	previewSink := sink.NewPreviewSink(getOutputDir(cfg), opener)
	name := doc.PersonalInfo.Name

	var path string
	path, err = previewSink.Deliver(ctx, resume.PreviewFilename(name), resume.Title(name), text)
	if errors.Is(err, sink.ErrPreviewBlocked) {
		fmt.Printf("Warning: %v\n", err)
		fmt.Printf("Open %s in a browser to print it.\n", path)
		err = nil
		return err
	}
	if err != nil {
		err = errors.Wrap(err, "failed to write preview")
		return err
	}

	fmt.Printf("✓ Preview written to %s\n", path)
	return err
}

func runResumePrint(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), resumeTimeout)
	defer cancel()

	_, _, text, err := generateResume(ctx, true)
	if err != nil {
		return err
	}

	fmt.Print(text)
	return err
}
