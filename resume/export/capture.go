package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// Capturer turns a rendered page into a PNG bitmap.
type Capturer interface {
	Capture(ctx context.Context, page []byte) ([]byte, error)
}

var ErrNoCapturer = errors.New("no preview capturer configured")

const (
	captureWidth       = 794
	captureHeight      = 1123
	captureScale       = 2.0
	defaultCaptureWait = 60 * time.Second
)

// ChromeCapturer screenshots pages in headless Chrome.
type ChromeCapturer struct {
	ExecPath string
	Timeout  time.Duration
}

// NewChromeCapturer builds a capturer. An empty execPath lets chromedp locate Chrome.
func NewChromeCapturer(execPath string, timeout time.Duration) *ChromeCapturer {
	if timeout <= 0 {
		timeout = defaultCaptureWait
	}
	return &ChromeCapturer{ExecPath: execPath, Timeout: timeout}
}

func (c *ChromeCapturer) Capture(ctx context.Context, page []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, c.Timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resume-preview-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)
	pagePath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(pagePath, page, 0o644); err != nil {
		return nil, err
	}

	white := &cdp.RGBA{R: 255, G: 255, B: 255, A: 1}
	var shot []byte
	err = chromedp.Run(runCtx,
		chromedp.EmulateViewport(captureWidth, captureHeight, chromedp.EmulateScale(captureScale)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDefaultBackgroundColorOverride().WithColor(white).Do(ctx)
		}),
		chromedp.Navigate("file://"+pagePath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&shot, 100),
	)
	if err != nil {
		return nil, err
	}
	return shot, nil
}

// CaptureFunc adapts a function to Capturer.
type CaptureFunc func(ctx context.Context, page []byte) ([]byte, error)

func (f CaptureFunc) Capture(ctx context.Context, page []byte) ([]byte, error) {
	return f(ctx, page)
}

func capturePreview(ctx context.Context, c Capturer, page []byte) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("capture preview: %w", ErrNoCapturer)
	}
	shot, err := c.Capture(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("capture preview: %w", err)
	}
	return shot, nil
}
