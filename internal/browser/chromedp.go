package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
)

// ChromedpManager drives Chrome over the DevTools protocol. Every session
// gets its own browser process from the shared allocator.
type ChromedpManager struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	actionTimeout time.Duration
}

// NewChromedpManager prepares an exec allocator; Chrome starts on Acquire.
// Only chromium can be driven this way.
func NewChromedpManager(opts LaunchOptions) (*ChromedpManager, error) {
	if opts.Browser != "" && opts.Browser != "chromium" {
		return nil, fmt.Errorf("the chromedp backend only drives chromium, not %q", opts.Browser)
	}
	width, height := opts.viewport()
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(width, height),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	return &ChromedpManager{allocCtx: allocCtx, allocCancel: allocCancel, actionTimeout: opts.ActionTimeout}, nil
}

func (m *ChromedpManager) Acquire() (Session, error) {
	ctx, cancel := chromedp.NewContext(m.allocCtx)
	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("could not start chrome: %w", err)
	}
	return &chromedpSession{ctx: ctx, cancel: cancel, actionTimeout: m.actionTimeout}, nil
}

func (m *ChromedpManager) Close() error {
	m.allocCancel()
	return nil
}

type chromedpSession struct {
	ctx           context.Context
	cancel        context.CancelFunc
	actionTimeout time.Duration
}

func (s *chromedpSession) Navigate(url string) error {
	if err := chromedp.Run(s.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (s *chromedpSession) CurrentURL() (string, error) {
	var url string
	if err := chromedp.Run(s.ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// WaitForURL polls the location; a click that submits a form returns before
// the next document is committed.
func (s *chromedpSession) WaitForURL(fragment string, timeout time.Duration) (string, error) {
	return PollURL(s, fragment, timeout, DefaultPollInterval)
}

func (s *chromedpSession) nodes(loc Locator) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	// AtLeast(0) turns the query into an immediate lookup instead of a wait.
	err := chromedp.Run(s.ctx, chromedp.Nodes(loc.Selector(), &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", loc, err)
	}
	return nodes, nil
}

func (s *chromedpSession) Find(loc Locator) (Element, error) {
	nodes, err := s.nodes(loc)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, noSuchElement(loc)
	}
	return chromedpElement{ctx: s.ctx, id: nodes[0].NodeID, timeout: s.actionTimeout}, nil
}

func (s *chromedpSession) FindAll(loc Locator) ([]Element, error) {
	nodes, err := s.nodes(loc)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, chromedpElement{ctx: s.ctx, id: n.NodeID, timeout: s.actionTimeout})
	}
	return elements, nil
}

func (s *chromedpSession) WaitUntil(loc Locator, cond Condition, timeout time.Duration) (Element, error) {
	return Poll(s, loc, cond, timeout, DefaultPollInterval)
}

func (s *chromedpSession) Screenshot() ([]byte, error) {
	var buf []byte
	if err := chromedp.Run(s.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *chromedpSession) Close() error {
	s.cancel()
	return nil
}

type chromedpElement struct {
	ctx context.Context
	id  cdp.NodeID
	// timeout bounds clicks and key presses; zero means none
	timeout time.Duration
}

func (e chromedpElement) ids() []cdp.NodeID { return []cdp.NodeID{e.id} }

func (e chromedpElement) act(action chromedp.Action) error {
	ctx := e.ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return chromedp.Run(ctx, action)
}

func (e chromedpElement) Click() error {
	return e.act(chromedp.Click(e.ids(), chromedp.ByNodeID))
}

func (e chromedpElement) Clear() error {
	return e.act(chromedp.Clear(e.ids(), chromedp.ByNodeID))
}

func (e chromedpElement) SendKeys(text string) error {
	return e.act(chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID))
}

func (e chromedpElement) Text() (string, error) {
	var text string
	if err := chromedp.Run(e.ctx, chromedp.Text(e.ids(), &text, chromedp.ByNodeID)); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// IsDisplayed treats a node without a box model as not rendered.
func (e chromedpElement) IsDisplayed() (bool, error) {
	var shown bool
	err := chromedp.Run(e.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := dom.GetBoxModel().WithNodeID(e.id).Do(ctx)
		shown = err == nil
		return nil
	}))
	return shown, err
}

func (e chromedpElement) IsEnabled() (bool, error) {
	var (
		value    string
		disabled bool
	)
	err := chromedp.Run(e.ctx, chromedp.AttributeValue(e.ids(), "disabled", &value, &disabled, chromedp.ByNodeID))
	if err != nil {
		return false, err
	}
	return !disabled, nil
}
