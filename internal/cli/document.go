package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cv-editor/internal/cv"
	"cv-editor/internal/importer"
	"cv-editor/internal/printfit"
	"cv-editor/internal/render"
	"cv-editor/internal/shared/metrics"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the document as JSON or Markdown",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [json|pdf] [file]",
	Short: "Replace the document with an imported file",
	Long:  `Imports a resume.json file, or a PDF or DOCX résumé parsed by the extraction service.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runImport,
}

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Print the document to a one-page A4 PDF",
	Args:  cobra.NoArgs,
	RunE:  runPDF,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default document",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var scaleCmd = &cobra.Command{
	Use:         "scale",
	Short:       "Show the print scale for measured page dimensions",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"offline": "true"},
	RunE:        runScale,
}

var (
	exportFormat string
	outputPath   string
	pdfOutput    string
	resetYes     bool
	pageWidth    float64
	pageHeight   float64
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json or md")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	pdfCmd.Flags().StringVarP(&pdfOutput, "output", "o", "resume.pdf", "Output file")
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm the reset")
	scaleCmd.Flags().Float64Var(&pageWidth, "width", 794, "Page width in pixels")
	scaleCmd.Flags().Float64Var(&pageHeight, "height", 0, "Page content height in pixels (0 measures the stored document)")

	rootCmd.AddCommand(exportCmd, importCmd, pdfCmd, resetCmd, scaleCmd)
}

func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outputPath == "" || outputPath == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	doc := deps.Store.Data()
	var raw []byte
	switch exportFormat {
	case "json":
		b, err := cv.Encode(doc)
		if err != nil {
			return err
		}
		raw = b
	case "md", "markdown":
		md, err := render.Markdown(doc)
		if err != nil {
			return err
		}
		raw = []byte(md)
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}

	w, closeFn, err := output(cmd)
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

func runImport(cmd *cobra.Command, args []string) error {
	kind, path := args[0], args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var res importer.Result
	switch kind {
	case "json":
		res, err = deps.Importer.FromJSON(data)
	case "pdf":
		res, err = deps.Importer.FromFile(ctx, data, "", path)
	default:
		return fmt.Errorf("unknown import kind %q", kind)
	}
	if err != nil {
		return err
	}
	if err := deps.Store.LoadData(ctx, res.Document); err != nil {
		return err
	}
	for _, w := range res.Warnings {
		cmd.PrintErrf("warning: %s\n", w)
	}
	cmd.Printf("imported %s\n", path)
	return nil
}

func runPDF(cmd *cobra.Command, _ []string) error {
	if deps.Printer == nil {
		return errors.New("printing is not configured")
	}
	html, err := render.PrintHTML(deps.Store.Data())
	if err != nil {
		return err
	}
	start := time.Now()
	pdf, res, err := deps.Printer.PrintPDF(cmd.Context(), html)
	metrics.ObservePrint(time.Since(start), res.Scale, err)
	if err != nil {
		return fmt.Errorf("print: %w", err)
	}
	if err := os.WriteFile(pdfOutput, pdf, 0o644); err != nil {
		return err
	}
	cmd.Printf("wrote %s (scale %s)\n", pdfOutput, scaleLabel(res.Scale))
	return nil
}

func runReset(cmd *cobra.Command, _ []string) error {
	if err := deps.Store.ResetData(cmd.Context(), resetYes); err != nil {
		if errors.Is(err, cv.ErrConfirmationRequired) {
			return errors.New("reset needs --yes")
		}
		return err
	}
	cmd.Println("document reset")
	return nil
}

func runScale(cmd *cobra.Command, _ []string) error {
	if pageHeight > 0 {
		scale := printfit.Scale(pageWidth, pageHeight)
		cmd.Printf("target height %.0f, scale %s\n", printfit.TargetHeight(pageWidth), scaleLabel(scale))
		return nil
	}

	// Without a height the stored document is rendered and measured.
	if err := ensureDeps(cmd); err != nil {
		return err
	}
	if deps.Printer == nil {
		return errors.New("printing is not configured")
	}
	html, err := render.PrintHTML(deps.Store.Data())
	if err != nil {
		return err
	}
	res, err := deps.Printer.Measure(cmd.Context(), html)
	if err != nil {
		return fmt.Errorf("measure: %w", err)
	}
	cmd.Printf("page %.0fx%.0f, target height %.0f, scale %s\n", res.Width, res.Height, res.TargetHeight, scaleLabel(res.Scale))
	return nil
}

func scaleLabel(scale float64) string {
	ind := printfit.Indicator(scale)
	if !ind.Visible {
		return "100% (fits)"
	}
	return fmt.Sprintf("%s (%s)", ind.Label, ind.Severity)
}
