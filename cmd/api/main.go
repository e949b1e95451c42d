package main

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kyelem/reliefradar/internal/api"
	"github.com/kyelem/reliefradar/internal/collector"
	"github.com/kyelem/reliefradar/internal/config"
	"github.com/kyelem/reliefradar/internal/scheduler"
	"github.com/kyelem/reliefradar/internal/storage"
)

// Overridden at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	builtAt = "unknown"
)

func main() {
	cfg := config.Load()

	cache := storage.NewCache(cfg.RedisAddr, cfg.CacheTTL)
	dispatcher := collector.NewDispatcher()

	loader := func() (*config.Sources, error) { return config.LoadSources(cfg.NewsConfig) }
	srv := api.NewServer(loader, dispatcher.Dispatch, cache, api.BuildInfo{
		Version: version,
		Commit:  commit,
		BuiltAt: builtAt,
	})

	// Warm the response cache on a schedule so requests right after a cold
	// start do not pay the full source fan-out.
	if cache != nil && cfg.WarmCron != "" {
		s, err := scheduler.New(cfg.WarmCron, srv.WarmCache)
		if err != nil {
			log.Fatalf("init scheduler failed: %v", err)
		}
		s.Start()
	}

	r := gin.Default()
	// When a site password is configured, everything except /health requires
	// Basic Auth.
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}
	srv.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// basicAuthMiddleware guards the whole site behind one shared credential.
// /health stays open for probes.
func basicAuthMiddleware(user, pass string) gin.HandlerFunc {
	const realm = "Restricted"
	uBytes := []byte(user)
	pBytes := []byte(pass)

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), uBytes) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), pBytes) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
