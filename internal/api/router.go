package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kyelem/reliefradar/internal/collector"
	"github.com/kyelem/reliefradar/internal/config"
	"github.com/kyelem/reliefradar/internal/processor"
	"github.com/kyelem/reliefradar/internal/storage"
)

const newsCacheKey = "news:latest"

// BuildInfo is filled from ldflags in cmd/api.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	BuiltAt string `json:"builtAt"`
}

// SourceLoader resolves the sources document for one invocation.
type SourceLoader func() (*config.Sources, error)

// DispatchFunc runs the per-source fan-out.
type DispatchFunc func(sources []collector.SourceSpec, loc *time.Location) []collector.FetchResult

type Server struct {
	load     SourceLoader
	dispatch DispatchFunc
	cache    *storage.Cache
	build    BuildInfo
}

func NewServer(load SourceLoader, dispatch DispatchFunc, cache *storage.Cache, build BuildInfo) *Server {
	return &Server{load: load, dispatch: dispatch, cache: cache, build: build}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/version", s.version)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.news)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) version(c *gin.Context) {
	c.JSON(http.StatusOK, s.build)
}

// news serves the ranked funding/region-relevant items, or one of the
// diagnostic projections over the same dispatch result. Internal faults never
// become error statuses: the payload stays success-shaped with an explanatory
// message, so downstream consumers stay simple.
func (s *Server) news(c *gin.Context) {
	raw := c.Query("raw") != ""
	debug := c.Query("debug") != ""

	srcCfg, err := s.load()
	if err != nil {
		log.Printf("news: load sources config: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"count":    0,
			"timezone": config.DefaultTimezone,
			"items":    []processor.Article{},
			"error":    err.Error(),
		})
		return
	}
	loc := srcCfg.Location()

	if raw {
		c.JSON(http.StatusOK, gin.H{
			"timezone": srcCfg.Timezone,
			"sources":  processor.RawView(s.dispatch(srcCfg.Specs(), loc)),
		})
		return
	}

	if debug {
		results := s.dispatch(srcCfg.Specs(), loc)
		items := filteredItems(srcCfg, results)
		c.JSON(http.StatusOK, gin.H{
			"count":    len(items),
			"timezone": srcCfg.Timezone,
			"items":    items,
			"sources":  processor.Stats(results),
		})
		return
	}

	// Only the primary projection is cached; diagnostics always live-fetch.
	if payload, ok := s.cache.Get(c.Request.Context(), newsCacheKey); ok {
		s.setCacheControl(c)
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	payload, err := s.primaryPayload(srcCfg, loc)
	if err != nil {
		log.Printf("news: render payload: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"count":    0,
			"timezone": srcCfg.Timezone,
			"items":    []processor.Article{},
			"error":    err.Error(),
		})
		return
	}

	s.cache.Set(c.Request.Context(), newsCacheKey, payload)
	s.setCacheControl(c)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// WarmCache recomputes the primary payload and refreshes the cached copy so
// the first request after a cold start does not pay the full fan-out.
func (s *Server) WarmCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	srcCfg, err := s.load()
	if err != nil {
		log.Printf("warm: load sources config: %v", err)
		return
	}

	payload, err := s.primaryPayload(srcCfg, srcCfg.Location())
	if err != nil {
		log.Printf("warm: render payload: %v", err)
		return
	}

	s.cache.Set(ctx, newsCacheKey, payload)
	log.Printf("warm: cached %d bytes", len(payload))
}

func (s *Server) primaryPayload(srcCfg *config.Sources, loc *time.Location) ([]byte, error) {
	results := s.dispatch(srcCfg.Specs(), loc)
	items := filteredItems(srcCfg, results)
	return json.Marshal(gin.H{
		"count":    len(items),
		"timezone": srcCfg.Timezone,
		"items":    items,
	})
}

func filteredItems(srcCfg *config.Sources, results []collector.FetchResult) []processor.Article {
	filter := processor.NewFilter(srcCfg.Regions, srcCfg.MaxAgeDays)
	return processor.Render(filter.Apply(processor.Flatten(results)))
}

func (s *Server) setCacheControl(c *gin.Context) {
	if ttl := s.cache.TTL(); ttl > 0 {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(ttl.Seconds())))
	}
}
