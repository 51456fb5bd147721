package session

import "net/http"

// Cookie names used by the gateway. AccessTokenCookie and RefreshTokenCookie
// are set after credential sign-in and must stay readable by the frontend;
// the session cookie is HttpOnly.
const (
	SessionCookie      = "fintrack_session"
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	StateCookie        = "oauth_state"
)

// SetSessionCookie writes the signed session cookie.
func SetSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetTokenCookie writes a bearer token cookie readable by the frontend.
func SetTokenCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires a cookie by name.
func ClearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// ClearAuthCookies expires every cookie this tier sets. Called before each
// new sign-in attempt and at logout.
func ClearAuthCookies(w http.ResponseWriter) {
	ClearCookie(w, AccessTokenCookie)
	ClearCookie(w, RefreshTokenCookie)
	ClearCookie(w, SessionCookie)
}
