package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// DefaultAllowedOrigins are the front-ends the service is deployed for.
var DefaultAllowedOrigins = []string{
	"http://localhost:5000",
	"http://localhost:5173",
	"https://query-hub-d9dd2.web.app",
	"https://query-hub-web.netlify.app",
}

// ParseAllowedOrigins turns an ALLOWED_ORIGINS value ("*" or a comma
// separated list) into an allow-list, falling back to DefaultAllowedOrigins.
func ParseAllowedOrigins(env string) []string {
	env = strings.TrimSpace(env)
	if env == "" {
		return DefaultAllowedOrigins
	}
	if env == "*" {
		return []string{"*"}
	}

	var allowed []string
	for _, o := range strings.Split(env, ",") {
		if o = strings.TrimSuffix(strings.TrimSpace(o), "/"); o != "" {
			allowed = append(allowed, o)
		}
	}
	return allowed
}

// ValidateOrigins reports the first entry cors.New would reject: every origin
// needs an http or https scheme, and "*" must stand alone.
func ValidateOrigins(allowed []string) error {
	if len(allowed) == 0 {
		return fmt.Errorf("no allowed origins")
	}
	for _, o := range allowed {
		if o == "*" {
			if len(allowed) > 1 {
				return fmt.Errorf("origin %q cannot be combined with other origins", o)
			}
			continue
		}
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("origin %q must start with http:// or https://", o)
		}
	}
	return nil
}

// CORSMiddleware answers cross-origin requests from the allow-list with
// credentials enabled. Other origins get 403.
func CORSMiddleware(allowed []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:              []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders:             []string{"Content-Length", RequestIDHeader},
		AllowCredentials:          true,
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}

	// A literal "*" cannot be combined with credentials, so echo every origin.
	if len(allowed) == 1 && allowed[0] == "*" {
		config.AllowOriginFunc = func(string) bool { return true }
	} else {
		config.AllowOrigins = allowed
	}

	return cors.New(config)
}
