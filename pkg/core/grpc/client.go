package grpc

import (
	"time"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// ClientConfig configures a connection to a running `trump serve`
type ClientConfig struct {
	Target string
	// MaxResponseSize bounds a decoded program document
	MaxResponseSize   int
	KeepaliveInterval time.Duration
	Logger            *mdwlog.Logger
}

// DefaultClientConfig returns the defaults used by `trump parse --remote`
func DefaultClientConfig(target string) ClientConfig {
	return ClientConfig{
		Target:            target,
		MaxResponseSize:   16 << 20,
		KeepaliveInterval: time.Minute,
	}
}

// Dial creates a lazy connection; the first call establishes it
func Dial(cfg ClientConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(cfg.MaxResponseSize)),
		grpc.WithChainUnaryInterceptor(ClientInterceptor(logging.Wrap("grpc-client", cfg.Logger))),
	}
	if cfg.KeepaliveInterval > 0 {
		dialOpts = append(dialOpts, grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time: cfg.KeepaliveInterval,
		}))
	}

	conn, err := grpc.NewClient(cfg.Target, append(dialOpts, opts...)...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to dial").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithDetail("target", cfg.Target)
	}
	return conn, nil
}

// DialSimple dials target with DefaultClientConfig
func DialSimple(target string) (*grpc.ClientConn, error) {
	return Dial(DefaultClientConfig(target))
}
