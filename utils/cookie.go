package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenCookieName is the identity cookie set alongside the bearer token at
// login. The cookie carries the exact same JWT and is verified identically.
const TokenCookieName = "stadssurr_token"

// localOrigin reports whether the request origin points at a local
// development host, in which case cross-site cookie attributes would break.
func localOrigin(origin string) bool {
	return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
}

// SetTokenCookie writes the identity cookie. Attributes depend on the request
// origin: local development gets Lax/insecure so the cookie works over plain
// HTTP, everything else gets None/Secure for cross-site frontends.
func SetTokenCookie(ctx *gin.Context, token string, maxAge int) {
	origin := ctx.GetHeader("Origin")
	cookie := &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	}
	if localOrigin(origin) {
		cookie.SameSite = http.SameSiteLaxMode
	} else {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	}
	http.SetCookie(ctx.Writer, cookie)
}

// ClearTokenCookie expires the identity cookie using the same attribute rules
// as SetTokenCookie so browsers actually drop it.
func ClearTokenCookie(ctx *gin.Context) {
	SetTokenCookie(ctx, "", -1)
}
