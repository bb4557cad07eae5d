package grpc

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func testLogger() *logging.Logger {
	return logging.Wrap("test", mdwlog.Discard())
}

func bufferLogger(buf *bytes.Buffer) *logging.Logger {
	return logging.Wrap("test", mdwlog.NewWithConfig(mdwlog.Config{
		Level:  mdwlog.LevelDebug,
		Format: mdwlog.FormatLogfmt,
		Output: buf,
	}))
}

func parseInfo() *grpc.UnaryServerInfo {
	return &grpc.UnaryServerInfo{FullMethod: "/trump.v1.Frontend/Parse"}
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		code mdwerror.Code
		want codes.Code
	}{
		{mdwerror.CodeSyntax, codes.InvalidArgument},
		{mdwerror.CodeInvalidInput, codes.InvalidArgument},
		{mdwerror.CodeNotFound, codes.NotFound},
		{mdwerror.CodeTimeout, codes.DeadlineExceeded},
		{mdwerror.CodeServiceUnavailable, codes.Unavailable},
		{mdwerror.CodeStorageError, codes.Internal},
		{mdwerror.CodeUnknown, codes.Unknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := CodeFor(tt.code); got != tt.want {
				t.Errorf("CodeFor(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestToStatus(t *testing.T) {
	if ToStatus(nil) != nil {
		t.Error("ToStatus(nil) should be nil")
	}

	err := ToStatus(mdwerror.New("source too large").WithCode(mdwerror.CodeInvalidInput))
	if got := status.Code(err); got != codes.InvalidArgument {
		t.Errorf("status.Code() = %v, want %v", got, codes.InvalidArgument)
	}

	err = ToStatus(errors.New("boom"))
	if got := status.Code(err); got != codes.Unknown {
		t.Errorf("status.Code() = %v, want %v", got, codes.Unknown)
	}

	existing := status.Error(codes.Aborted, "aborted")
	if got := ToStatus(existing); got != existing {
		t.Errorf("ToStatus() should keep existing status errors, got %v", got)
	}
}

func TestMethodName(t *testing.T) {
	tests := []struct {
		full string
		want string
	}{
		{"/trump.v1.Frontend/Parse", "Frontend/Parse"},
		{"/trump.v1.Frontend/Tokenize", "Frontend/Tokenize"},
		{"/grpc.health.v1.Health/Check", "Health/Check"},
		{"/Plain/Call", "Plain/Call"},
		{"nomethod", "nomethod"},
	}

	for _, tt := range tests {
		t.Run(tt.full, func(t *testing.T) {
			if got := methodName(tt.full); got != tt.want {
				t.Errorf("methodName(%q) = %q, want %q", tt.full, got, tt.want)
			}
		})
	}
}

func TestRequestIDInterceptor(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{"generates", ""},
		{"adopts caller id", "req-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.incoming != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs(RequestIDHeader, tt.incoming))
			}

			var seen string
			_, err := RequestIDInterceptor()(ctx, nil, parseInfo(),
				func(ctx context.Context, req interface{}) (interface{}, error) {
					seen = GetRequestID(ctx)
					return nil, nil
				})
			if err != nil {
				t.Fatalf("interceptor returned error: %v", err)
			}
			if tt.incoming != "" && seen != tt.incoming {
				t.Errorf("GetRequestID() = %q, want %q", seen, tt.incoming)
			}
			if seen == "" {
				t.Error("GetRequestID() is empty")
			}
		})
	}

	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() = %q, want empty", got)
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	resp, err := RecoveryInterceptor(testLogger())(context.Background(), nil, parseInfo(),
		func(ctx context.Context, req interface{}) (interface{}, error) {
			panic("handler exploded")
		})

	if resp != nil {
		t.Errorf("resp = %v, want nil", resp)
	}
	st := status.Convert(err)
	if st.Code() != codes.Internal {
		t.Errorf("status.Code() = %v, want %v", st.Code(), codes.Internal)
	}
	if st.Message() != "Frontend/Parse failed unexpectedly" {
		t.Errorf("status.Message() = %q, want %q", st.Message(), "Frontend/Parse failed unexpectedly")
	}
}

func TestLoggingInterceptor_SummarisesResponse(t *testing.T) {
	tests := []struct {
		name string
		resp map[string]interface{}
		want []string
	}{
		{
			name: "parse",
			resp: map[string]interface{}{
				"diagnostics": []interface{}{"a", "b"},
				"tokens":      5,
				"history_id":  "h1",
			},
			want: []string{`method="Frontend/Parse"`, "diagnostics=2", "tokens=5", `history_id="h1"`, `code="OK"`},
		},
		{
			name: "tokenize",
			resp: map[string]interface{}{
				"tokens": []interface{}{"1", "+", "2", "EOF"},
				"count":  4,
			},
			want: []string{"tokens=4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			resp, err := structpb.NewStruct(tt.resp)
			if err != nil {
				t.Fatalf("NewStruct() error = %v", err)
			}

			got, err := LoggingInterceptor(bufferLogger(&buf))(context.Background(), nil, parseInfo(),
				func(ctx context.Context, req interface{}) (interface{}, error) {
					return resp, nil
				})
			if err != nil || got != resp {
				t.Fatalf("interceptor() = (%v, %v), want the handler response", got, err)
			}

			line := buf.String()
			if !strings.Contains(line, `message="frontend call"`) {
				t.Errorf("log = %q, want the frontend call message", line)
			}
			for _, want := range tt.want {
				if !strings.Contains(line, want) {
					t.Errorf("log = %q, want %q", line, want)
				}
			}
		})
	}
}

func TestLoggingInterceptor_Levels(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantMsg   string
	}{
		{"rejected input", status.Error(codes.InvalidArgument, "source too large"), "level=info", "frontend call rejected"},
		{"server fault", status.Error(codes.Internal, "disk gone"), "level=error", "frontend call failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := LoggingInterceptor(bufferLogger(&buf))(context.Background(), nil, parseInfo(),
				func(ctx context.Context, req interface{}) (interface{}, error) {
					return nil, tt.err
				})
			if err != tt.err {
				t.Errorf("interceptor() error = %v, want %v", err, tt.err)
			}

			line := buf.String()
			if !strings.Contains(line, tt.wantLevel) || !strings.Contains(line, tt.wantMsg) {
				t.Errorf("log = %q, want %s and %q", line, tt.wantLevel, tt.wantMsg)
			}
		})
	}
}

func startServer(t *testing.T, onError func(error)) *Server {
	t.Helper()
	cfg := DefaultServerConfig()
	cfg.Port = 0
	cfg.EnableReflection = false
	cfg.Logger = mdwlog.Discard()
	server := NewServer(cfg)

	if err := server.StartAsync(onError); err != nil {
		t.Fatalf("StartAsync() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.StopWithTimeout(ctx)
	})
	return server
}

func splitAddress(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("SplitHostPort(%q) error = %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Atoi(%q) error = %v", portStr, err)
	}
	return host, port
}

func TestServer_HealthAndRequestIDs(t *testing.T) {
	server := startServer(t, nil)
	if server.Address() == "127.0.0.1:0" {
		t.Fatalf("Address() = %q, want the bound port", server.Address())
	}
	server.SetServing("trump.v1.Frontend", true)

	cfg := DefaultClientConfig(server.Address())
	cfg.Logger = mdwlog.Discard()
	conn, err := Dial(cfg)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("serving", func(t *testing.T) {
		var header metadata.MD
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "trump.v1.Frontend"}, grpc.Header(&header))
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("Check() status = %v, want SERVING", resp.GetStatus())
		}
		if ids := header.Get(RequestIDHeader); len(ids) != 1 || ids[0] == "" {
			t.Errorf("header %s = %v, want one generated id", RequestIDHeader, ids)
		}
	})

	t.Run("caller id echoed", func(t *testing.T) {
		var header metadata.MD
		callCtx := metadata.AppendToOutgoingContext(ctx, RequestIDHeader, "req-7")
		if _, err := client.Check(callCtx, &healthpb.HealthCheckRequest{}, grpc.Header(&header)); err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		if ids := header.Get(RequestIDHeader); len(ids) != 1 || ids[0] != "req-7" {
			t.Errorf("header %s = %v, want [req-7]", RequestIDHeader, ids)
		}
	})

	t.Run("unknown service", func(t *testing.T) {
		_, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "trump.v1.Missing"})
		if status.Code(err) != codes.NotFound {
			t.Errorf("Check() code = %v, want %v", status.Code(err), codes.NotFound)
		}
	})

	t.Run("not serving", func(t *testing.T) {
		server.SetServing("trump.v1.Frontend", false)
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "trump.v1.Frontend"})
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
			t.Errorf("Check() status = %v, want NOT_SERVING", resp.GetStatus())
		}
	})
}

func TestServer_StartAsyncReportsServeFailure(t *testing.T) {
	errs := make(chan error, 1)
	server := startServer(t, func(err error) { errs <- err })

	// closing the listener underneath Serve is a failure, not a Stop
	server.listener.Close()

	select {
	case err := <-errs:
		if err == nil {
			t.Error("onError received nil")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("onError was not called")
	}
}

func TestServer_StopIsNotAFailure(t *testing.T) {
	errs := make(chan error, 1)
	cfg := DefaultServerConfig()
	cfg.Port = 0
	cfg.Logger = mdwlog.Discard()
	server := NewServer(cfg)
	if err := server.StartAsync(func(err error) { errs <- err }); err != nil {
		t.Fatalf("StartAsync() error = %v", err)
	}

	server.Stop()

	select {
	case err := <-errs:
		t.Errorf("onError(%v) after Stop", err)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestServer_StartAsyncPortInUse(t *testing.T) {
	first := startServer(t, nil)

	cfg := DefaultServerConfig()
	cfg.Logger = mdwlog.Discard()
	host, port := splitAddress(t, first.Address())
	cfg.Host, cfg.Port = host, port

	err := NewServer(cfg).StartAsync(nil)
	if !mdwerror.HasCode(err, mdwerror.CodeServiceUnavailable) {
		t.Errorf("StartAsync() error = %v, want %s", err, mdwerror.CodeServiceUnavailable)
	}
}

func TestDial(t *testing.T) {
	conn, err := DialSimple("127.0.0.1:1")
	if err != nil {
		t.Fatalf("DialSimple() error = %v", err)
	}
	defer conn.Close()

	if conn.Target() != "127.0.0.1:1" {
		t.Errorf("Target() = %q, want %q", conn.Target(), "127.0.0.1:1")
	}
}
