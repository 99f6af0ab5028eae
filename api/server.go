// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package api serves catalog search over HTTP.
//
// The server keeps no session state: every search request carries its query
// and active tags, and the response carries the tags that remain active
// after pruning. Clients send those back on their next request.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/search"
)

// ErrCatalogRequired is returned when a catalog is not provided.
var ErrCatalogRequired = errors.New("catalog required")

const shutdownTimeout = 5 * time.Second

// Catalog is the recipe set the server searches.
type Catalog interface {
	search.Catalog
	Get(id int) (*core.Recipe, bool)
}

// Server is the HTTP API.
type Server struct {
	catalog          Catalog
	router           *gin.Engine
	allowedOrigins   []string
	descriptionLimit int
	logger           *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithAllowedOrigins enables CORS for the given origins. "*" allows any
// origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) error {
		for _, o := range origins {
			if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
				return fmt.Errorf("api: bad origin %q", o)
			}
		}
		s.allowedOrigins = origins
		return nil
	}
}

// WithDescriptionLimit caps short descriptions in responses.
// Default is 200; zero disables the cap.
func WithDescriptionLimit(limit int) Option {
	return func(s *Server) error {
		s.descriptionLimit = limit
		return nil
	}
}

// NewServer creates a server over c.
func NewServer(c Catalog, opts ...Option) (*Server, error) {
	if c == nil {
		return nil, ErrCatalogRequired
	}

	s := &Server{
		catalog:          c,
		descriptionLimit: 200,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(s.logger))

	if len(s.allowedOrigins) > 0 {
		cfg := cors.Config{
			AllowMethods:  []string{http.MethodGet, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}
		if slices.Contains(s.allowedOrigins, "*") {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = s.allowedOrigins
		}
		router.Use(cors.New(cfg))
	}

	router.GET("/healthz", s.health)

	v1 := router.Group("/api/v1")
	v1.GET("/recipes", s.searchRecipes)
	v1.GET("/recipes/:id", s.getRecipe)
	v1.GET("/facets/:type", s.facetOptions)

	return router
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
