package http

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// Local frontend origins that are always allowed.
var localOrigins = []string{"http://localhost:8080", "http://127.0.0.1:8080"}

// CORSMiddleware restricts cross-origin access to the configured frontend
// origin plus the local development origins. Outside production any
// http://localhost or http://127.0.0.1 port is accepted as well.
func CORSMiddleware(origin string, production bool) fiber.Handler {
	allowed := []string{}
	if origin != "" {
		allowed = append(allowed, origin)
	}
	for _, o := range localOrigins {
		if o != origin {
			allowed = append(allowed, o)
		}
	}

	cfg := cors.Config{
		AllowOrigins:     strings.Join(allowed, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Content-Type, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}
	if !production {
		cfg.AllowOriginsFunc = isLoopbackOrigin
	}
	return cors.New(cfg)
}

func isLoopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme != "http" {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}
