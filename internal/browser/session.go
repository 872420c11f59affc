// Package browser drives the headless Chrome session used to scan and claim
// offers. It exposes the small page surface the looter package needs, so the
// rest of the program never touches chromedp directly.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	cdpnetwork "github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/txmazing/primelooter/internal/cookies"
)

// NavigationError means the page failed to load; it aborts the current cycle
// but not a looping run.
type NavigationError struct {
	URL    string
	Status int64
	Err    error
}

func (e *NavigationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("navigate %s: http %d", e.URL, e.Status)
	}
	return fmt.Sprintf("navigate %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// Options configures a browser session.
type Options struct {
	Headless      bool
	Debug         bool
	ActionTimeout time.Duration
	Logger        zerolog.Logger
}

// Session is one browser context with a single active page. It must be
// closed on every exit path; Close is safe to call more than once.
type Session struct {
	ctx           context.Context
	cancel        context.CancelFunc
	actionTimeout time.Duration
	log           zerolog.Logger
}

// NewSession launches the browser and waits for it to come up.
func NewSession(parent context.Context, opts Options) (*Session, error) {
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = 30 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", opts.Headless),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)

	var ctxOpts []chromedp.ContextOption
	if opts.Debug {
		logger := opts.Logger
		ctxOpts = append(ctxOpts, chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug().Msgf("chrome: "+format, args...)
		}))
	}
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	cancel := func() {
		browserCancel()
		allocCancel()
	}

	// Run with no actions forces the browser process to start now, so a
	// broken Chrome install fails the cycle before any navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Session{
		ctx:           browserCtx,
		cancel:        cancel,
		actionTimeout: opts.ActionTimeout,
		log:           opts.Logger,
	}, nil
}

// Close shuts down the browser process.
func (s *Session) Close() {
	s.cancel()
}

// InjectCookies loads the exported cookie records into the browser context.
// Must be called before the first navigation.
func (s *Session) InjectCookies(jar cookies.Jar) error {
	return chromedp.Run(s.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range jar.Cookies {
			params := cdpnetwork.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithSecure(c.Secure).
				WithHTTPOnly(c.HTTPOnly)
			if c.Expires != nil {
				expires := cdp.TimeSinceEpoch(*c.Expires)
				params = params.WithExpires(&expires)
			}
			if err := params.Do(ctx); err != nil {
				return fmt.Errorf("set cookie %s for %s: %w", c.Name, c.Domain, err)
			}
		}
		s.log.Debug().Int("cookies", len(jar.Cookies)).Msg("injected cookies into browser context")
		return nil
	}))
}

// Navigate loads url in the active page and fails on a non-2xx response.
func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, cancel, err := s.actionContext(ctx)
	if err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	defer cancel()

	resp, err := chromedp.RunResponse(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	if resp != nil && resp.Status >= 400 {
		return &NavigationError{URL: url, Status: resp.Status}
	}
	return nil
}

// HTML returns the full outer markup of the current page.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// Click clicks the first element matching selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

// Exists reports whether selector matches anything on the current page.
func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	var found bool
	expr := fmt.Sprintf("document.querySelector(%q) !== null", selector)
	if err := s.run(ctx, chromedp.Evaluate(expr, &found)); err != nil {
		return false, err
	}
	return found, nil
}

// WaitVisible blocks until selector is rendered or the context expires.
func (s *Session) WaitVisible(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Text returns the inner text of the first element matching selector.
func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	var text string
	err := s.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery))
	return text, err
}

// Value returns the value property of the first input matching selector.
func (s *Session) Value(ctx context.Context, selector string) (string, error) {
	var value string
	err := s.run(ctx, chromedp.Value(selector, &value, chromedp.ByQuery))
	return value, err
}

func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel, err := s.actionContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// actionContext bounds one browser action by the session's action timeout
// while still honoring the caller's deadline and cancellation.
func (s *Session) actionContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := s.ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("browser context closed: %w", err)
	}

	timeout := s.actionTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)

	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}, nil
}
