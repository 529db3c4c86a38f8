package core

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const defaultCaptureTimeout = 60 * time.Second

// CaptureOptions configure the headless browser used to snapshot a page.
type CaptureOptions struct {
	// ProfileDir is a Chrome user data dir holding a logged-in session.
	ProfileDir string
	WaitFor    string
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Capture loads url in headless Chrome and returns the rendered document.
// The extractor itself never fetches; this is the collaborator that
// produces its input.
func Capture(ctx context.Context, url string, opts CaptureOptions) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultCaptureTimeout
	}
	if opts.WaitFor == "" {
		opts.WaitFor = "body"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("force-device-scale-factor", "1"),
		chromedp.Flag("window-size", "1920,1080"),
	)
	if opts.ProfileDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.ProfileDir))
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	ctx, cancel = chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	ctx, cancel = chromedp.NewContext(ctx)
	defer cancel()

	opts.Logger.Info("capturing page", zap.String("url", url))

	var domNode string
	err := chromedp.Run(
		ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady(opts.WaitFor, chromedp.ByQuery),
		chromedp.OuterHTML("html", &domNode, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to capture %s: %w", url, err)
	}

	return domNode, nil
}
