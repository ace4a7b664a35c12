package handlers

import (
	"net/http"

	"github.com/adyen/loginsuite/internal/services"
)

// LogoutHandler ends the session and returns to the login page
type LogoutHandler struct {
	auth services.AuthService
}

// NewLogoutHandler creates a new LogoutHandler
func NewLogoutHandler(auth services.AuthService) *LogoutHandler {
	return &LogoutHandler{auth: auth}
}

// ServeHTTP handles POST /logout
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		h.auth.Logout(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
