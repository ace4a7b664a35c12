package handlers

import (
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/adyen/loginsuite/internal/services"
)

// Product represents a product item
type Product struct {
	Name        string
	Description string
	Price       string
	ImageURL    string
}

// DefaultProducts returns the demo shop's catalogue
func DefaultProducts() []Product {
	return []Product{
		{Name: "Sauce Labs Backpack", Description: "Sly pack that melds uncompromising style with unequaled laptop and tablet protection.", Price: "$29.99"},
		{Name: "Sauce Labs Bike Light", Description: "A red light isn't the desired state in testing but it sure helps when riding your bike at night.", Price: "$9.99"},
		{Name: "Sauce Labs Bolt T-Shirt", Description: "Get your testing superhero on with the Sauce Labs bolt T-shirt.", Price: "$15.99"},
		{Name: "Sauce Labs Fleece Jacket", Description: "It's not every day that you come across a midweight quarter-zip fleece jacket.", Price: "$49.99"},
		{Name: "Sauce Labs Onesie", Description: "Rib snap infant onesie for the junior automation engineer in development.", Price: "$7.99"},
		{Name: "Test.allTheThings() T-Shirt (Red)", Description: "This classic Sauce Labs t-shirt is perfect to wear when cozying up to your keyboard.", Price: "$15.99"},
	}
}

// InventoryHandler handles the product list page
type InventoryHandler struct {
	template *template.Template
	auth     services.AuthService
	products []Product
	logger   *log.Logger
}

// InventoryData represents the data for the inventory template
type InventoryData struct {
	Username string
	Products []Product
}

// NewInventoryHandler creates a new InventoryHandler with injected products
func NewInventoryHandler(auth services.AuthService, products []Product, logger *log.Logger) (*InventoryHandler, error) {
	tmpl, err := parseTemplate("inventory.html")
	if err != nil {
		return nil, err
	}

	return &InventoryHandler{
		template: tmpl,
		auth:     auth,
		products: products,
		logger:   logger,
	}, nil
}

// ServeHTTP handles GET /inventory.html. Visitors without a session are sent
// back to the login page.
func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		http.Redirect(w, r, "/?error=login-required", http.StatusSeeOther)
		return
	}
	session, err := h.auth.Session(cookie.Value)
	if err != nil {
		http.Redirect(w, r, "/?error=login-required", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := InventoryData{Username: session.Username, Products: h.products}
	if err := h.template.Execute(w, data); err != nil {
		h.logger.Error("error rendering template", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
