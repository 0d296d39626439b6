package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// blockedPatterns are fetched resource types that never contribute listing
// data. Blocking them cuts page weight substantially on map result pages.
var blockedPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg",
	"*.woff", "*.woff2", "*.ttf",
	"*.mp4", "*.webm",
}

// Options configures Chrome process launches
type Options struct {
	Headless       bool
	UserAgent      string
	ChromePath     string
	PageTimeout    time.Duration
	BlockResources bool

	// NextProxy, when set, supplies a proxy URL for each launched process.
	// Wired to the rotating proxy pool.
	NextProxy func() string

	// ProxyFailed is told about a proxy whose process failed to launch so
	// the pool can bench it for a cooldown.
	ProxyFailed func(proxy string)
}

// ChromeLauncher launches one Chrome process per Launch call
type ChromeLauncher struct {
	opts Options
}

// NewChromeLauncher builds a launcher, autodiscovering the Chrome binary
// when no explicit path is configured.
func NewChromeLauncher(opts Options) *ChromeLauncher {
	if opts.ChromePath == "" {
		opts.ChromePath = FindChrome()
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 60 * time.Second
	}
	return &ChromeLauncher{opts: opts}
}

// Launch starts a fresh Chrome process and returns a handle to it.
// The caller owns the returned Browser and must Close it.
func (l *ChromeLauncher) Launch(ctx context.Context) (Browser, error) {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-ipc-flooding-protection", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("disk-cache-size", "0"),
		chromedp.Flag("lang", "en-US"),
	}

	if l.opts.ChromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(l.opts.ChromePath)}, allocOpts...)
	}
	if l.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(l.opts.UserAgent))
	}
	if l.opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	var proxy string
	if l.opts.NextProxy != nil {
		if proxy = l.opts.NextProxy(); proxy != "" {
			allocOpts = append(allocOpts, chromedp.ProxyServer(proxy))
			log.Debug().Str("proxy", proxy).Msg("Browser session using proxy")
		}
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Warm up: forces the process to actually start so launch failures
	// surface here rather than on the first page.
	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocCancel()
		if proxy != "" && l.opts.ProxyFailed != nil {
			l.opts.ProxyFailed(proxy)
		}
		return nil, fmt.Errorf("chrome launch failed: %w", err)
	}

	return &chromeBrowser{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		opts:          l.opts,
	}, nil
}

type chromeBrowser struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	opts          Options
	closeOnce     sync.Once
}

// NewPage opens a new tab in this browser process with the page timeout and
// resource blocking already applied.
func (b *chromeBrowser) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, b.opts.PageTimeout)

	pg := &chromePage{
		ctx: timeoutCtx,
		cancel: func() {
			timeoutCancel()
			tabCancel()
		},
	}

	if b.opts.BlockResources {
		if err := chromedp.Run(timeoutCtx,
			network.Enable(),
			network.SetBlockedURLS(blockedPatterns),
		); err != nil {
			pg.Close()
			return nil, fmt.Errorf("page setup failed: %w", err)
		}
	}

	return pg, nil
}

// Close tears down the browser process exactly once
func (b *chromeBrowser) Close() error {
	b.closeOnce.Do(func() {
		b.browserCancel()
		b.allocCancel()
	})
	return nil
}

type chromePage struct {
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func (p *chromePage) Context() context.Context {
	return p.ctx
}

func (p *chromePage) Close() error {
	p.closeOnce.Do(p.cancel)
	return nil
}
