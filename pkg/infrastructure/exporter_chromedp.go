package infrastructure

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"ai-folio/internal/domain"
)

// ResumeSelector is the element captured into the PDF.
const ResumeSelector = "#resume"

type ChromedpExporter struct {
	execPath string
	timeout  time.Duration
}

func NewChromedpExporter(execPath string, timeout time.Duration) *ChromedpExporter {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChromedpExporter{execPath: execPath, timeout: timeout}
}

func (e *ChromedpExporter) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1240, 1754),
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}
	return opts
}

// Export captures the #resume element of html at 2x scale and places the
// image on a single A4 page with no margins.
func (e *ChromedpExporter) Export(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, e.timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "folio-export-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}

	var present bool
	var shot []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(visibleScript(ResumeSelector), &present),
	)
	if err != nil {
		return nil, fmt.Errorf("load resume view: %w", err)
	}
	if !present {
		return nil, domain.ErrEmptyView
	}
	if err := chromedp.Run(runCtx, chromedp.ScreenshotScale(ResumeSelector, 2, &shot, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("capture resume view: %w", err)
	}
	if err := checkCapture(shot); err != nil {
		return nil, err
	}

	pdf, err := e.printImage(runCtx, tmpDir, shot)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return nil, fmt.Errorf("export produced no pdf document")
	}
	return pdf, nil
}

// visibleScript reports whether sel matches an element that is displayed
// with a non-zero box. The screenshot action waits for visibility, so a
// hidden or collapsed element must be caught here.
func visibleScript(sel string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%q);
  if (!el) return false;
  const r = el.getBoundingClientRect();
  const st = window.getComputedStyle(el);
  return r.width > 0 && r.height > 0 && st.display !== "none" && st.visibility !== "hidden";
})()`, sel)
}

// checkCapture rejects captures that decode to an empty image.
func checkCapture(png []byte) error {
	if len(png) == 0 {
		return domain.ErrEmptyView
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return fmt.Errorf("decode capture: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return domain.ErrEmptyView
	}
	return nil
}

const imagePage = `<!DOCTYPE html><html><head><style>
@page { size: A4; margin: 0; }
html, body { margin: 0; padding: 0; }
img { display: block; width: 210mm; height: auto; }
</style></head><body><img src="data:image/png;base64,%s"></body></html>`

func (e *ChromedpExporter) printImage(ctx context.Context, dir string, png []byte) ([]byte, error) {
	pagePath := filepath.Join(dir, "capture.html")
	doc := fmt.Sprintf(imagePage, base64.StdEncoding.EncodeToString(png))
	if err := os.WriteFile(pagePath, []byte(doc), 0o644); err != nil {
		return nil, err
	}

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("file://"+pagePath),
		chromedp.WaitReady("img", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPageRanges("1").
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdfBuf, nil
}
