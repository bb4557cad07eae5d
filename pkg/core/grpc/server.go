package grpc

import (
	"context"
	"net"
	"strconv"
	"time"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// ServerConfig configures the gRPC side of the inspection API
type ServerConfig struct {
	Host string
	Port int
	// MaxSourceLength sizes the receive limit; a request is the source plus a small envelope
	MaxSourceLength  int
	EnableReflection bool
	// KeepaliveInterval pings idle clients, zero disables it
	KeepaliveInterval time.Duration
	Logger            *mdwlog.Logger
}

// DefaultServerConfig returns the defaults used by `trump serve`
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              9090,
		MaxSourceLength:   1 << 20,
		EnableReflection:  true,
		KeepaliveInterval: time.Minute,
	}
}

// Server hosts gRPC services behind the request id, recovery and logging
// interceptors, next to the standard grpc.health.v1 service.
type Server struct {
	server   *grpc.Server
	health   *health.Server
	addr     string
	listener net.Listener
	logger   *logging.Logger
}

// NewServer creates a server. Services are registered on GRPCServer() before
// Serve or StartAsync.
func NewServer(cfg ServerConfig, opts ...grpc.ServerOption) *Server {
	logger := logging.Wrap("grpc", cfg.Logger)

	maxSource := cfg.MaxSourceLength
	if maxSource <= 0 {
		maxSource = DefaultServerConfig().MaxSourceLength
	}

	serverOpts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(2*maxSource + 4096),
		grpc.ChainUnaryInterceptor(
			RequestIDInterceptor(),
			RecoveryInterceptor(logger),
			LoggingInterceptor(logger),
		),
	}
	if cfg.KeepaliveInterval > 0 {
		serverOpts = append(serverOpts,
			grpc.KeepaliveParams(keepalive.ServerParameters{Time: cfg.KeepaliveInterval}),
			grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
				MinTime:             10 * time.Second,
				PermitWithoutStream: true,
			}),
		)
	}
	server := grpc.NewServer(append(serverOpts, opts...)...)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	if cfg.EnableReflection {
		reflection.Register(server)
	}

	return &Server{
		server: server,
		health: healthServer,
		addr:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		logger: logger,
	}
}

// GRPCServer returns the underlying server for service registration
func (s *Server) GRPCServer() *grpc.Server {
	return s.server
}

// SetServing publishes a service's state on grpc.health.v1
func (s *Server) SetServing(service string, serving bool) {
	state := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		state = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, state)
}

// Serve blocks serving on listener until Stop
func (s *Server) Serve(listener net.Listener) error {
	s.listener = listener
	return s.serve(listener)
}

// StartAsync binds the configured address and serves in the background.
// onError receives the error if serving ends for any reason other than Stop.
func (s *Server) StartAsync(onError func(error)) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return mdwerror.Wrap(err, "failed to listen").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithDetail("address", s.addr)
	}
	s.listener = listener

	go func() {
		if err := s.serve(listener); err != nil {
			s.logger.Error("gRPC server stopped", "address", listener.Addr().String(), "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
	return nil
}

func (s *Server) serve(listener net.Listener) error {
	s.logger.Info("gRPC server listening", "address", listener.Addr().String())
	return s.server.Serve(listener)
}

// Stop marks every service NOT_SERVING and waits for in-flight calls
func (s *Server) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

// StopWithTimeout stops gracefully, forcing close when ctx expires
func (s *Server) StopWithTimeout(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("graceful stop timed out, forcing close")
		s.server.Stop()
	}
}

// Address returns the bound address, or the configured one before listening
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
