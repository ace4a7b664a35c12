package handlers

import (
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/adyen/loginsuite/internal/models"
	"github.com/adyen/loginsuite/internal/services"
)

// SessionCookie names the cookie holding the session token
const SessionCookie = "session-token"

// InventoryPath is where a successful login redirects
const InventoryPath = "/inventory.html"

// LoginHandler serves the login form and handles submissions
type LoginHandler struct {
	template *template.Template
	auth     services.AuthService
	logger   *log.Logger
}

// LoginData represents the data for the login template
type LoginData struct {
	Username string
	Error    string
}

// NewLoginHandler creates a new LoginHandler
func NewLoginHandler(auth services.AuthService, logger *log.Logger) (*LoginHandler, error) {
	tmpl, err := parseTemplate("login.html")
	if err != nil {
		return nil, err
	}

	return &LoginHandler{
		template: tmpl,
		auth:     auth,
		logger:   logger,
	}, nil
}

// ServeHTTP handles GET / and POST /
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		var data LoginData
		if r.URL.Query().Get("error") == "login-required" {
			data.Error = models.SadfaceMessage(models.ErrNotLoggedIn)
		}
		h.render(w, http.StatusOK, data)
	case http.MethodPost:
		h.login(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LoginHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("user-name")
	password := r.PostFormValue("password")

	session, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		h.logger.Debug("login failed", "username", username, "err", err)
		h.render(w, http.StatusOK, LoginData{Username: username, Error: models.SadfaceMessage(err)})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	http.Redirect(w, r, InventoryPath, http.StatusSeeOther)
}

func (h *LoginHandler) render(w http.ResponseWriter, status int, data LoginData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.template.Execute(w, data); err != nil {
		h.logger.Error("error rendering template", "err", err)
	}
}
