package browser

import "fmt"

// Backend names
const (
	BackendPlaywright = "playwright"
	BackendChromedp   = "chromedp"
)

// NewManager returns the Manager for the named backend.
func NewManager(backend string, opts LaunchOptions) (Manager, error) {
	switch backend {
	case "", BackendPlaywright:
		return NewPlaywrightManager(opts)
	case BackendChromedp:
		return NewChromedpManager(opts)
	default:
		return nil, fmt.Errorf("unknown browser backend %q", backend)
	}
}
