package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/locale"
)

const (
	localeCookie       = "locale"
	localeCookieMaxAge = 30 * 24 * 60 * 60 // 30 days
)

// LocaleMiddleware picks the request locale along the priority chain:
// explicit ?lang= parameter, persisted cookie, the authenticated user's
// stored preference, Accept-Language. The result is threaded through the
// request context under "locale" — never package state — and an explicit
// choice is persisted to a 30-day cookie.
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var candidates []string

		if lang := c.Query("lang"); lang != "" {
			candidates = append(candidates, lang)
		}
		if cookie, err := c.Cookie(localeCookie); err == nil && cookie != "" {
			candidates = append(candidates, cookie)
		}
		if stored := c.GetString("user_locale"); stored != "" {
			candidates = append(candidates, stored)
		}
		candidates = append(candidates, locale.FromAcceptLanguage(c.GetHeader("Accept-Language"))...)

		resolved := locale.Resolve(candidates, locale.Default)
		c.Set("locale", resolved)

		// An explicit parameter is a user decision; keep it across visits.
		if lang := c.Query("lang"); lang != "" && locale.Canonical(lang) == resolved {
			c.SetCookie(localeCookie, resolved, localeCookieMaxAge, "/", "", false, false)
		}

		c.Next()
	}
}
