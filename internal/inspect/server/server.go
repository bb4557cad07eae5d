// ============================================================================
// trump - expression language front-end
// ============================================================================
//
// Package:     server
// Description: Runs the HTTP/WebSocket and gRPC inspection listeners
// Author:      abyanmajid
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang"
	"github.com/abyanmajid/trump/internal/history"
	"github.com/abyanmajid/trump/internal/inspect/handler"
	"github.com/abyanmajid/trump/internal/inspect/rpc"
	"github.com/abyanmajid/trump/pkg/core/config"
	coregrpc "github.com/abyanmajid/trump/pkg/core/grpc"
	"github.com/abyanmajid/trump/pkg/core/health"
	"github.com/abyanmajid/trump/pkg/core/version"
)

// Options wires the server to its collaborators. History may be nil.
type Options struct {
	Config  config.ServerConfig
	Engine  *lang.Engine
	History *history.Store
	Logger  *mdwlog.Logger
}

// Server runs the inspection API on HTTP and gRPC
type Server struct {
	config   config.ServerConfig
	logger   *mdwlog.Logger
	health   *health.Registry
	http     *http.Server
	grpc     *coregrpc.Server
	listener net.Listener

	errCh    chan error
	stopOnce sync.Once
}

// New creates a server. Nothing listens until Start.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	engine := opts.Engine
	if engine == nil {
		engine = lang.NewEngine(lang.Options{Logger: logger})
	}

	registry := health.NewRegistry("trump", version.Platform)
	registry.Register(health.ParserCheck("parser", engine))
	if opts.History != nil {
		registry.Register(health.PingCheck("history", opts.History.Ping))
	}

	api := handler.NewHandler(handler.Config{
		Engine:  engine,
		Health:  registry,
		History: opts.History,
		Logger:  logger,
		Version: version.Platform,
	})

	grpcCfg := coregrpc.DefaultServerConfig()
	grpcCfg.Host = opts.Config.Host
	grpcCfg.Port = opts.Config.GRPCPort
	grpcCfg.EnableReflection = opts.Config.EnableReflection
	grpcCfg.MaxSourceLength = engine.Options().MaxSourceLength
	grpcCfg.Logger = logger
	grpcServer := coregrpc.NewServer(grpcCfg)
	rpc.RegisterFrontendServer(grpcServer.GRPCServer(), rpc.NewService(engine, opts.History, logger))
	grpcServer.SetServing(rpc.ServiceName, true)

	return &Server{
		config: opts.Config,
		logger: logger.WithName("inspect-server"),
		health: registry,
		http: &http.Server{
			Addr:              net.JoinHostPort(opts.Config.Host, strconv.Itoa(opts.Config.HTTPPort)),
			Handler:           api,
			ReadTimeout:       opts.Config.ReadTimeout.Duration,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      opts.Config.WriteTimeout.Duration,
		},
		grpc:  grpcServer,
		errCh: make(chan error, 2),
	}
}

// Health returns the health registry
func (s *Server) Health() *health.Registry {
	return s.health
}

// Start opens both listeners and serves in the background
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return mdwerror.Wrap(err, fmt.Sprintf("failed to listen on %s", s.http.Addr)).
			WithCode(mdwerror.CodeServiceUnavailable)
	}
	s.listener = listener

	err = s.grpc.StartAsync(func(err error) {
		s.errCh <- mdwerror.Wrap(err, "gRPC server failed").WithCode(mdwerror.CodeServiceError)
	})
	if err != nil {
		listener.Close()
		return mdwerror.Wrap(err, "failed to start gRPC server").WithCode(mdwerror.CodeServiceUnavailable)
	}
	// the gRPC port is only known once bound
	s.health.Register(health.TCPCheck("grpc", s.GRPCAddress(), time.Second))

	go func() {
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- mdwerror.Wrap(err, "HTTP server failed").WithCode(mdwerror.CodeServiceError)
		}
	}()

	s.logger.Info("inspection server started", mdwlog.Fields{
		"http": s.HTTPAddress(),
		"grpc": s.GRPCAddress(),
	})
	return nil
}

// Run starts the server and blocks until ctx is done or a listener fails
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-s.errCh:
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Stop shuts both listeners down gracefully, forcing close when ctx expires
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		s.grpc.StopWithTimeout(ctx)
		if shutdownErr := s.http.Shutdown(ctx); shutdownErr != nil {
			err = mdwerror.Wrap(shutdownErr, "HTTP shutdown failed").WithCode(mdwerror.CodeTimeout)
		}
		s.logger.Info("inspection server stopped")
	})
	return err
}

// HTTPAddress returns the bound HTTP address
func (s *Server) HTTPAddress() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.http.Addr
}

// GRPCAddress returns the bound gRPC address
func (s *Server) GRPCAddress() string {
	return s.grpc.Address()
}
