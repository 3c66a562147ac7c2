// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package server runs the gin engine the simulator endpoints are mounted on.
package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/server/middleware"
)

// APIServer is the interface of the api server.
type APIServer interface {
	// Setup setups the server engine, like custom routers or middlewares.
	// Setup should be called before Run.
	Setup(SetupFunc) error
	// Run serves until Close is called or a listener fails.
	Run() error
	// Close shutdowns the api server engine.
	Close()
	// Handler returns the engine, for tests that serve it themselves.
	Handler() http.Handler
}

// SetupFunc is the func used to set up the engine.
type SetupFunc func(g *gin.Engine) error

type apiServer struct {
	*gin.Engine

	options *Options

	httpServer, httpsServer *http.Server
}

// New returns a new api server instance.
func New(options *Options) (APIServer, error) {
	if errs := options.Validate(); len(errs) > 0 {
		return nil, errors.NewAggregate(errs)
	}

	gin.SetMode(options.Mode)

	s := &apiServer{
		options: options,
		Engine:  gin.New(),
	}
	s.Use(gin.Recovery())
	s.initServer()

	return s, nil
}

func (s *apiServer) initServer() {
	s.setupGlobalMiddlewares()
	s.setupGlobalRouters()
}

func (s *apiServer) setupGlobalMiddlewares() {
	installed := make([]string, 0, len(s.options.Middlewares))
	for _, m := range s.options.Middlewares {
		mw := middleware.Get(m)
		if mw == nil {
			log.Warnf("Middleware %s can not found", m)

			continue
		}
		installed = append(installed, m)
		s.Use(mw)
	}
	if len(installed) != 0 {
		log.Infof("Installed middlewares: %s", strings.Join(installed, ","))
	}
}

func (s *apiServer) setupGlobalRouters() {
	if s.options.Healthz {
		s.addHealthzRouter()
	}

	if s.options.Metrics {
		prometheus := ginprometheus.NewPrometheus("shopdesk")
		prometheus.Use(s.Engine)
	}

	if s.options.Profiling {
		pprof.Register(s.Engine)
	}
}

func (s *apiServer) Setup(setupFunc SetupFunc) error {
	if setupFunc == nil {
		return nil
	}

	return setupFunc(s.Engine)
}

func (s *apiServer) Handler() http.Handler {
	return s.Engine
}

//nolint:gosec
func (s *apiServer) Run() error {
	var eg errgroup.Group

	s.httpServer = &http.Server{
		Addr:              s.options.HTTP.Address(),
		Handler:           s,
		ReadHeaderTimeout: s.options.ReadHeaderTimeout,
	}
	eg.Go(func() error {
		log.Infof("Start to listening on http server: %s", s.options.HTTP.Address())

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "serve http on %s", s.options.HTTP.Address())
		}
		log.Infof("Server on %s stopped", s.options.HTTP.Address())

		return nil
	})

	if s.options.HTTPS.Enabled {
		s.httpsServer = &http.Server{
			Addr:              s.options.HTTPS.Address(),
			Handler:           s,
			ReadHeaderTimeout: s.options.ReadHeaderTimeout,
		}
		eg.Go(func() error {
			key, cert := s.options.HTTPS.TLS.KeyFile, s.options.HTTPS.TLS.CertFile
			log.Infof("Start to listening on https server: %s", s.options.HTTPS.Address())

			if err := s.httpsServer.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrapf(err, "serve https on %s", s.options.HTTPS.Address())
			}
			log.Infof("Server on %s stopped", s.options.HTTPS.Address())

			return nil
		})
	}

	if s.options.Healthz {
		eg.Go(func() error {
			if err := s.healthCheck(); err != nil {
				s.Close()
				return err
			}
			return nil
		})
	}

	return eg.Wait()
}

func (s *apiServer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Warnf("Failed to shutdown http server: %s", err.Error())
		}
		log.Infof("HTTP server on %s stopped", s.options.HTTP.Address())
	}

	if s.httpsServer != nil {
		if err := s.httpsServer.Shutdown(ctx); err != nil {
			log.Warnf("Failed to shutdown https server: %s", err.Error())
		}
		log.Infof("HTTPS server on %s stopped", s.options.HTTPS.Address())
	}
}
