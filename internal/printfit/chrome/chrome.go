// Package chrome drives the print-fit scaler and PDF printing through a
// headless Chrome.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"cv-editor/internal/printfit"
)

const (
	PageSelector    = ".cv-page"
	WrapperSelector = "#cv-wrapper"
)

var ErrNoPage = errors.New("page element not found")

// Surface implements printfit.Surface on the document loaded in the chromedp
// target bound to the context it is called with.
type Surface struct{}

var _ printfit.Surface = Surface{}

func (Surface) eval(ctx context.Context, script string, out any) error {
	return chromedp.Evaluate(script, out).Do(ctx)
}

func (s Surface) PageWidth(ctx context.Context) (float64, error) {
	var w float64
	err := s.eval(ctx, fmt.Sprintf(`(() => { const p = document.querySelector(%q); return p ? p.offsetWidth : -1; })()`, PageSelector), &w)
	if err != nil {
		return 0, err
	}
	if w < 0 {
		return 0, ErrNoPage
	}
	return w, nil
}

func (s Surface) ContentHeight(ctx context.Context) (float64, error) {
	var h float64
	err := s.eval(ctx, fmt.Sprintf(`(() => { const p = document.querySelector(%q); if (!p) return -1; void p.offsetHeight; return p.scrollHeight; })()`, PageSelector), &h)
	if err != nil {
		return 0, err
	}
	if h < 0 {
		return 0, ErrNoPage
	}
	return h, nil
}

func (s Surface) ApplyVisualScale(ctx context.Context, factor, clipHeight float64) error {
	script := fmt.Sprintf(`(() => {
  const p = document.querySelector(%q);
  const w = document.querySelector(%q);
  if (!p || !w) return false;
  p.style.transform = 'scale(%g)';
  p.style.transformOrigin = 'top center';
  w.style.height = '%gpx';
  w.style.overflow = 'hidden';
  void w.offsetHeight;
  return true;
})()`, PageSelector, WrapperSelector, factor, clipHeight)
	var ok bool
	if err := s.eval(ctx, script, &ok); err != nil {
		return err
	}
	if !ok {
		return ErrNoPage
	}
	return nil
}

func (s Surface) ClearVisualScale(ctx context.Context) error {
	script := fmt.Sprintf(`(() => {
  const p = document.querySelector(%q);
  const w = document.querySelector(%q);
  if (p) { p.style.removeProperty('transform'); p.style.removeProperty('transform-origin'); void p.offsetHeight; }
  if (w) { w.style.removeProperty('height'); w.style.removeProperty('overflow'); }
  return true;
})()`, PageSelector, WrapperSelector)
	var ok bool
	return s.eval(ctx, script, &ok)
}

// Printer renders page HTML to an A4 PDF.
type Printer struct {
	ExecPath string
	Timeout  time.Duration
}

func (p *Printer) run(ctx context.Context, html string, actions ...chromedp.Action) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(p.ExecPath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	tctx, cancelTimeout := context.WithTimeout(cctx, timeout)
	defer cancelTimeout()

	tmpDir, err := os.MkdirTemp("", "cv-print-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return err
	}

	steps := []chromedp.Action{
		chromedp.Navigate("file://" + htmlPath),
		chromedp.WaitReady(PageSelector, chromedp.ByQuery),
	}
	return chromedp.Run(tctx, append(steps, actions...)...)
}

// Measure loads html and reports the scale a print would use, without
// printing.
func (p *Printer) Measure(ctx context.Context, html string) (printfit.Result, error) {
	var res printfit.Result
	err := p.run(ctx, html, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		res, err = printfit.Measure(ctx, Surface{})
		return err
	}))
	return res, err
}

// PrintPDF fits the page to one A4 sheet, prints it with backgrounds and
// restores the natural layout.
func (p *Printer) PrintPDF(ctx context.Context, html string) ([]byte, printfit.Result, error) {
	var (
		pdf []byte
		res printfit.Result
	)
	err := p.run(ctx, html, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		res, err = printfit.Fit(ctx, Surface{})
		if err != nil {
			return err
		}
		defer func() { _ = printfit.Restore(ctx, Surface{}) }()
		// A4: 210mm x 297mm -> inches: 8.27 x 11.69
		pdf, _, err = page.PrintToPDF().WithPrintBackground(true).
			WithPaperWidth(8.27).
			WithPaperHeight(11.69).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			WithPreferCSSPageSize(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, printfit.Result{}, err
	}
	return pdf, res, nil
}
