// Package cors applies Cross-Origin Resource Sharing headers.
package cors

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nimburion/storefront/pkg/server/router"
)

// Config configures CORS behavior.
type Config struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// Middleware sets CORS headers for allowed origins and short-circuits
// preflight requests with 204.
func Middleware(cfg Config) router.MiddlewareFunc {
	allowAll := slices.Contains(cfg.AllowOrigins, "*")
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := ""
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			origin := c.Request().Header.Get("Origin")
			if origin == "" {
				return next(c)
			}

			h := c.Response().Header()
			h.Add("Vary", "Origin")
			if !allowAll && !slices.Contains(cfg.AllowOrigins, origin) {
				if isPreflight(c.Request()) {
					c.Response().WriteHeader(http.StatusForbidden)
					return nil
				}
				return next(c)
			}

			// Credentials cannot be combined with a literal "*".
			if allowAll && !cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
			}
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if expose != "" {
				h.Set("Access-Control-Expose-Headers", expose)
			}

			if !isPreflight(c.Request()) {
				return next(c)
			}

			if methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}
			if headers != "" {
				h.Set("Access-Control-Allow-Headers", headers)
			} else if requested := c.Request().Header.Get("Access-Control-Request-Headers"); requested != "" {
				h.Set("Access-Control-Allow-Headers", requested)
			}
			if maxAge != "" {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			c.Response().WriteHeader(http.StatusNoContent)
			return nil
		}
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}
