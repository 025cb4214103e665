// Package snapshot captures screenshots of generated link pages with a
// headless browser.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

var ErrUnavailable = errors.New("snapshot: browser unavailable")

// Service hands out browser sessions. A session is expensive: acquire one
// per build and release it with Close.
type Service interface {
	Acquire(ctx context.Context) (Session, error)
}

// Session captures pages one at a time. It is not safe for concurrent use.
type Session interface {
	Capture(ctx context.Context, pageURL string) ([]byte, error)
	Close() error
}

// CleanerScript strips page chrome before the capture so the image shows the
// link card only. Every step tolerates a missing element.
const CleanerScript = `(function () {
  function each(fn) { try { fn(); } catch (e) {} }
  each(function () { document.getElementsByTagName('header')[0].style.background = 'none'; });
  each(function () { document.getElementsByTagName('form')[0].remove(); });
  each(function () { document.getElementById('page').style.margin = 0; });
  each(function () { document.getElementById('link_detail').style.margin = 0; });
  each(function () {
    var h1 = document.getElementsByTagName('h1')[0];
    h1.textContent = h1.textContent.toUpperCase();
  });
  each(function () { document.getElementsByTagName('script')[0].remove(); });
  each(function () { document.getElementsByClassName('meta')[0].remove(); });
  each(function () { document.getElementsByClassName('socializer')[0].remove(); });
  each(function () { document.getElementsByClassName('preview')[0].remove(); });
  each(function () { document.getElementsByTagName('p')[1].classList.remove('mb'); });
})();`

type Options struct {
	ExecPath string
	Width    int
	Height   int
	Timeout  time.Duration
	Script   string
}

// Chrome drives a local Chrome or Chromium through the DevTools protocol.
type Chrome struct {
	opts Options
}

func NewChrome(opts Options) *Chrome {
	if opts.Width <= 0 {
		opts.Width = 600
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Script == "" {
		opts.Script = CleanerScript
	}
	return &Chrome{opts: opts}
}

func (c *Chrome) Acquire(ctx context.Context) (Session, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.WindowSize(c.opts.Width, c.opts.Height),
		chromedp.Flag("hide-scrollbars", true),
	)
	if c.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// the first Run starts the browser
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &chromeSession{
		ctx:  browserCtx,
		opts: c.opts,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}, nil
}

type chromeSession struct {
	ctx    context.Context
	opts   Options
	cancel context.CancelFunc
}

func (s *chromeSession) Capture(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runCtx, cancel := context.WithTimeout(s.ctx, s.opts.Timeout)
	defer cancel()

	// follow the caller's cancellation as well as the session's
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(int64(s.opts.Width), int64(s.opts.Height)),
		chromedp.Navigate(pageURL),
		chromedp.Evaluate(s.opts.Script, nil),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *chromeSession) Close() error {
	s.cancel()
	return nil
}

// Disabled never hands out a session.
type Disabled struct{}

func (Disabled) Acquire(context.Context) (Session, error) {
	return nil, ErrUnavailable
}

// FileURL is the file:// URL of a page on disk.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
