package adapters

import (
	"context"
	"errors"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/chromedp/chromedp"
	"sync"
)

var ErrBrowserPoolClosed = errors.New("browser pool closed")

type browserInstance struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (b *browserInstance) alive() bool {
	return b.ctx.Err() == nil
}

// BrowserPool hands out at most size headless browsers. Instances are launched lazily and relaunched after a crash.
type BrowserPool struct {
	logger outbound.LoggerPort
	launch func() (*browserInstance, error)
	slots  chan *browserInstance

	mu     sync.Mutex
	live   map[*browserInstance]struct{}
	closed bool
}

func NewBrowserPool(logger outbound.LoggerPort, size int, opts []chromedp.ExecAllocatorOption) *BrowserPool {
	return newBrowserPool(logger, size, func() (*browserInstance, error) {
		return launchChrome(opts)
	})
}

func newBrowserPool(logger outbound.LoggerPort, size int, launch func() (*browserInstance, error)) *BrowserPool {
	if size < 1 {
		size = 1
	}
	slots := make(chan *browserInstance, size)
	for i := 0; i < size; i++ {
		slots <- nil
	}
	return &BrowserPool{
		logger: logger,
		launch: launch,
		slots:  slots,
		live:   make(map[*browserInstance]struct{}),
	}
}

func ChromeAllocatorOptions(chromePath string, width int, height int) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(width, height),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("allow-file-access-from-files", true),
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	return opts
}

func launchChrome(opts []chromedp.ExecAllocatorOption) (*browserInstance, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, err
	}
	return &browserInstance{
		ctx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}, nil
}

func (p *BrowserPool) Acquire(ctx context.Context) (*browserInstance, error) {
	var inst *browserInstance
	select {
	case inst = <-p.slots:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		p.slots <- inst
		return nil, ErrBrowserPoolClosed
	}

	if inst != nil && inst.alive() {
		return inst, nil
	}
	if inst != nil {
		p.forget(inst)
	}

	inst, err := p.launch()
	if err != nil {
		p.slots <- nil
		return nil, err
	}
	p.mu.Lock()
	p.live[inst] = struct{}{}
	p.mu.Unlock()
	p.logger.Debug("headless browser launched")
	return inst, nil
}

// Release returns inst to the pool. Unhealthy instances are shut down and their slot is refilled on demand.
func (p *BrowserPool) Release(inst *browserInstance, healthy bool) {
	if inst == nil {
		p.slots <- nil
		return
	}
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if !healthy || closed || !inst.alive() {
		p.forget(inst)
		p.slots <- nil
		return
	}
	p.slots <- inst
}

func (p *BrowserPool) forget(inst *browserInstance) {
	inst.cancel()
	p.mu.Lock()
	delete(p.live, inst)
	p.mu.Unlock()
}

func (p *BrowserPool) Close() {
	p.mu.Lock()
	p.closed = true
	live := make([]*browserInstance, 0, len(p.live))
	for inst := range p.live {
		live = append(live, inst)
	}
	p.live = make(map[*browserInstance]struct{})
	p.mu.Unlock()

	for _, inst := range live {
		inst.cancel()
	}
}
