package pages

import (
	"fmt"
	"time"

	"github.com/adyen/loginsuite/internal/browser"
)

// Inventory screen locators
var (
	InventoryList = browser.ClassName("inventory_list")
	InventoryItem = browser.ClassName("inventory_item")
)

// InventoryPage is the product list shown after a successful login.
type InventoryPage struct {
	driver browser.Driver
	opts   Options
}

func NewInventoryPage(driver browser.Driver, opts Options) *InventoryPage {
	return &InventoryPage{driver: driver, opts: opts}
}

// WaitLoaded waits up to timeout for the product list to be present. Slow
// flows pass a budget longer than the page's usual one.
func (p *InventoryPage) WaitLoaded(timeout time.Duration) error {
	return p.opts.steps().Step(fmt.Sprintf("Wait up to %s for the inventory", timeout), func() error {
		_, err := p.driver.WaitUntil(InventoryList, browser.Present, timeout)
		return err
	})
}

// ItemCount returns how many products are rendered.
func (p *InventoryPage) ItemCount() (int, error) {
	var n int
	err := p.opts.steps().Step("Count inventory items", func() error {
		items, err := p.driver.FindAll(InventoryItem)
		n = len(items)
		return err
	})
	return n, err
}
