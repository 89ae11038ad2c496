package printing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/middleware"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	defaultRenderTimeout = 30 * time.Second

	// A4 in inches, which is what Chrome's print API expects.
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// ChromedpConfig configures the headless Chrome renderer.
type ChromedpConfig struct {
	// RemoteURL points at a running Chrome's DevTools endpoint. When empty a
	// local browser is launched.
	RemoteURL string
	Timeout   time.Duration
	// NoSandbox is needed when Chrome runs as root inside a container.
	NoSandbox bool
}

// ChromedpRenderer prints invoice HTML to PDF through the Chrome DevTools Protocol.
type ChromedpRenderer struct {
	timeout     time.Duration
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

var _ portssvc.DocumentRenderer = (*ChromedpRenderer)(nil)

// NewChromedpRenderer creates the browser allocator. The browser itself is
// started lazily on the first render.
func NewChromedpRenderer(cfg ChromedpConfig) *ChromedpRenderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRenderTimeout
	}

	r := &ChromedpRenderer{timeout: cfg.Timeout}
	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// RenderInvoice lays out doc and prints it on A4.
func (r *ChromedpRenderer) RenderInvoice(ctx context.Context, doc domain.InvoiceDocument) ([]byte, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	html, err := RenderInvoiceHTML(doc)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()
	browserCtx, cancel := context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	// Stop the browser tab when the request goes away.
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(browserCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("pdf rendering timed out after %v: %w", r.timeout, err)
		}
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(pdf) == 0 {
		return nil, errors.New("generated PDF is empty")
	}

	logger.Info("Invoice PDF rendered",
		slog.String("invoice_number", doc.Invoice.InvoiceNumber),
		slog.Int("bytes", len(pdf)),
		slog.Duration("duration", time.Since(start)))
	return pdf, nil
}

// Close shuts down the browser allocator.
func (r *ChromedpRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}
