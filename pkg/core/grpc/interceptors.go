package grpc

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	"github.com/abyanmajid/trump/pkg/core/logging"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "x-request-id"

type requestIDKey struct{}

// GetRequestID returns the id assigned by RequestIDInterceptor, or ""
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDInterceptor adopts the caller's request id or assigns a new one,
// and echoes it back in the response header.
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		id := firstValue(metadata.FromIncomingContext(ctx))
		if id == "" {
			id = uuid.NewString()
		}
		ctx = context.WithValue(ctx, requestIDKey{}, id)
		// SetHeader fails without a transport stream, as in direct calls
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, id))
		return handler(ctx, req)
	}
}

// RecoveryInterceptor turns a handler panic into an Internal status
func RecoveryInterceptor(logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			method := methodName(info.FullMethod)
			logger.Error("handler panicked",
				"method", method,
				"request_id", GetRequestID(ctx),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			resp = nil
			err = ToStatus(mdwerror.Newf("%s failed unexpectedly", method).
				WithCode(mdwerror.CodeInternal).
				WithOperation(info.FullMethod))
		}()
		return handler(ctx, req)
	}
}

// LoggingInterceptor logs one line per call with a summary of the response.
// Server faults log at error level; rejected input is the caller's concern.
func LoggingInterceptor(logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []interface{}{
			"method", methodName(info.FullMethod),
			"request_id", GetRequestID(ctx),
			"code", code.String(),
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000,
		}
		fields = append(fields, responseFields(resp)...)

		switch code {
		case codes.OK:
			logger.Info("frontend call", fields...)
		case codes.Internal, codes.Unknown, codes.DataLoss:
			logger.Error("frontend call failed", append(fields, "error", status.Convert(err).Message())...)
		default:
			logger.Info("frontend call rejected", append(fields, "error", status.Convert(err).Message())...)
		}
		return resp, err
	}
}

// ClientInterceptor propagates or assigns a request id and logs each call at
// debug level with the id the server echoed.
func ClientInterceptor(logger *logging.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		id := firstValue(metadata.FromOutgoingContext(ctx))
		if id == "" {
			id = uuid.NewString()
			ctx = metadata.AppendToOutgoingContext(ctx, RequestIDHeader, id)
		}

		var header metadata.MD
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, append(opts, grpc.Header(&header))...)

		echoed := firstValue(header, true)
		if echoed == "" {
			echoed = id
		}
		logger.Debug("frontend call",
			"method", methodName(method),
			"request_id", echoed,
			"code", status.Code(err).String(),
			"duration_ms", float64(time.Since(start).Microseconds())/1000,
		)
		return err
	}
}

func firstValue(md metadata.MD, ok bool) string {
	if !ok {
		return ""
	}
	if values := md.Get(RequestIDHeader); len(values) > 0 {
		return values[0]
	}
	return ""
}

// methodName trims "/trump.v1.Frontend/Parse" to "Frontend/Parse"
func methodName(full string) string {
	full = strings.TrimPrefix(full, "/")
	service, method, found := strings.Cut(full, "/")
	if !found {
		return full
	}
	if i := strings.LastIndex(service, "."); i >= 0 {
		service = service[i+1:]
	}
	return service + "/" + method
}

// responseFields summarises a Frontend response: diagnostics and token
// counts, plus the history id when the parse was saved.
func responseFields(resp interface{}) []interface{} {
	s, ok := resp.(*structpb.Struct)
	if !ok || s == nil {
		return nil
	}
	fields := s.GetFields()

	var out []interface{}
	if v, ok := fields["diagnostics"]; ok {
		out = append(out, "diagnostics", len(v.GetListValue().GetValues()))
	}
	if v, ok := fields["count"]; ok {
		out = append(out, "tokens", int(v.GetNumberValue()))
	} else if v, ok := fields["tokens"]; ok {
		out = append(out, "tokens", int(v.GetNumberValue()))
	}
	if v, ok := fields["history_id"]; ok {
		out = append(out, "history_id", v.GetStringValue())
	}
	return out
}
