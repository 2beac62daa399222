package adapters

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

type CaptureSettings struct {
	Width       int
	Height      int
	SettleDelay time.Duration
	Timeout     time.Duration
}

type chromedpSlideCapturer struct {
	logger   outbound.LoggerPort
	pool     *BrowserPool
	settings CaptureSettings
}

func NewChromedpSlideCapturer(logger outbound.LoggerPort, pool *BrowserPool, settings CaptureSettings) outbound.SlideCapturerPort {
	return &chromedpSlideCapturer{
		logger:   logger,
		pool:     pool,
		settings: settings,
	}
}

func (c *chromedpSlideCapturer) Capture(ctx context.Context, htmlPath string, imagePath string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return domain.Wrap(domain.KindInternal, "capture", "resolve path", htmlPath, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return domain.Wrap(domain.KindArtifactNotFound, "capture", "stat html", abs, err)
	}

	inst, err := c.pool.Acquire(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return domain.Wrap(domain.KindRenderFailure, "capture", "acquire browser", "", err)
	}
	healthy := true
	defer func() {
		c.pool.Release(inst, healthy)
	}()

	tabCtx, cancelTab := chromedp.NewContext(inst.ctx)
	defer cancelTab()
	if c.settings.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, c.settings.Timeout)
		defer cancelTimeout()
	}
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var png []byte
	if err := chromedp.Run(tabCtx, captureActions(fileURL(abs), c.settings, &png)); err != nil {
		_ = os.Remove(imagePath)
		if !inst.alive() {
			healthy = false
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return domain.Wrap(domain.KindRenderFailure, "capture", "screenshot", abs, err)
	}
	if len(png) == 0 {
		return domain.Wrap(domain.KindRenderFailure, "capture", "screenshot", "empty image", nil)
	}

	if err := os.WriteFile(imagePath, png, 0o644); err != nil {
		_ = os.Remove(imagePath)
		return domain.Wrap(domain.KindRenderFailure, "capture", "write image", imagePath, err)
	}
	c.logger.DebugWithFields("slide captured", map[string]interface{}{
		"html":  abs,
		"image": imagePath,
		"bytes": len(png),
	})
	return nil
}

func fileURL(abs string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// captureActions loads the page, waits for the body and web fonts, lets late scripts settle and grabs the viewport.
func captureActions(target string, settings CaptureSettings, png *[]byte) chromedp.Tasks {
	var fontsReady bool
	return chromedp.Tasks{
		chromedp.EmulateViewport(int64(settings.Width), int64(settings.Height)),
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`document.fonts ? document.fonts.ready.then(() => true) : true`, &fontsReady,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			}),
		chromedp.Sleep(settings.SettleDelay),
		chromedp.CaptureScreenshot(png),
	}
}
