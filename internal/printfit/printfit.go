// Package printfit shrinks a rendered page so it prints on exactly one A4
// sheet. The page is scaled with a visual transform, so column widths and
// line wrapping stay identical.
package printfit

import (
	"context"
	"fmt"
	"math"
)

const (
	// A4Ratio is the height to width ratio of an A4 sheet.
	A4Ratio = 297.0 / 210.0
	// Margin is the share of the page height kept free when scaling.
	Margin = 0.97
	// FitThreshold is the scale from which the page is considered to fit.
	FitThreshold = 0.999
	// WarnThreshold separates a mild shrink from a heavy one on the indicator.
	WarnThreshold = 0.90
)

// Surface is a rendered page that can be measured and visually scaled.
type Surface interface {
	// PageWidth is the rendered width of the page element.
	PageWidth(ctx context.Context) (float64, error)
	// ContentHeight is the natural, unscaled height of the page content.
	ContentHeight(ctx context.Context) (float64, error)
	// ApplyVisualScale scales the page from its top center and clips the
	// wrapping element to clipHeight.
	ApplyVisualScale(ctx context.Context, factor, clipHeight float64) error
	// ClearVisualScale removes any transform and clip.
	ClearVisualScale(ctx context.Context) error
}

// TargetHeight is the height of one A4 page for a page of the given width.
func TargetHeight(width float64) float64 {
	return width * A4Ratio
}

// Scale is the factor that fits content of the given height on one page of
// the given width. It is 1 when the content already fits.
func Scale(width, height float64) float64 {
	target := TargetHeight(width)
	if width <= 0 || height <= target {
		return 1
	}
	return target * Margin / height
}

// Result describes one fit.
type Result struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	TargetHeight float64 `json:"targetHeight"`
	Scale        float64 `json:"scale"`
	Applied      bool    `json:"applied"`
}

// Measure reads the natural geometry of s without changing it.
func Measure(ctx context.Context, s Surface) (Result, error) {
	width, err := s.PageWidth(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("measure width: %w", err)
	}
	height, err := s.ContentHeight(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("measure height: %w", err)
	}
	return Result{
		Width:        width,
		Height:       height,
		TargetHeight: TargetHeight(width),
		Scale:        Scale(width, height),
	}, nil
}

// Fit clears any previous scale, measures the natural layout and applies
// the scale when the content is taller than one page. Calling Fit twice
// without content changes yields the same result.
func Fit(ctx context.Context, s Surface) (Result, error) {
	if err := s.ClearVisualScale(ctx); err != nil {
		return Result{}, fmt.Errorf("clear scale: %w", err)
	}
	res, err := Measure(ctx, s)
	if err != nil {
		return Result{}, err
	}
	if res.Scale >= 1 {
		return res, nil
	}
	if err := s.ApplyVisualScale(ctx, res.Scale, res.Height*res.Scale); err != nil {
		return Result{}, fmt.Errorf("apply scale: %w", err)
	}
	res.Applied = true
	return res, nil
}

// Restore brings back the natural layout after printing or cancellation.
func Restore(ctx context.Context, s Surface) error {
	if err := s.ClearVisualScale(ctx); err != nil {
		return fmt.Errorf("restore scale: %w", err)
	}
	return nil
}

// Severity grades the indicator.
type Severity string

const (
	SeverityNone  Severity = ""
	SeverityWarn  Severity = "warn"
	SeverityAlert Severity = "alert"
)

// IndicatorState is the live badge telling how much the page would shrink.
type IndicatorState struct {
	Visible  bool     `json:"visible"`
	Label    string   `json:"label"`
	Percent  int      `json:"percent"`
	Severity Severity `json:"severity"`
}

// Indicator formats scale for display. It is hidden when the content fits.
func Indicator(scale float64) IndicatorState {
	if scale >= FitThreshold {
		return IndicatorState{Percent: 100}
	}
	pct := int(math.Round(scale * 100))
	sev := SeverityAlert
	if pct >= int(WarnThreshold*100) {
		sev = SeverityWarn
	}
	return IndicatorState{
		Visible:  true,
		Label:    fmt.Sprintf("%d%%", pct),
		Percent:  pct,
		Severity: sev,
	}
}
