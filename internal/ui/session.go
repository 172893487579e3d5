package ui

import (
	"net/http"
	"time"
)

const (
	// WorkspaceCookieName binds a browser to its workspace.
	WorkspaceCookieName = "procviz_workspace"
	// WorkspaceCookieDuration is how long the browser keeps the binding.
	WorkspaceCookieDuration = 30 * 24 * time.Hour
)

// workspaceIDFromRequest returns the workspace id in the cookie, or "".
func workspaceIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(WorkspaceCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetWorkspaceCookie binds the browser to a workspace.
func SetWorkspaceCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     WorkspaceCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(WorkspaceCookieDuration),
	})
}
