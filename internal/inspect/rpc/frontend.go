package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "trump.v1.Frontend"

// Full method names
const (
	MethodParse    = "/" + ServiceName + "/Parse"
	MethodTokenize = "/" + ServiceName + "/Tokenize"
)

// FrontendServer is the server API of the Frontend service. Messages are
// google.protobuf.Struct so documents travel without generated types.
type FrontendServer interface {
	Parse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Tokenize(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// FrontendServiceDesc describes the Frontend service for registration
var FrontendServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FrontendServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Parse", Handler: parseHandler},
		{MethodName: "Tokenize", Handler: tokenizeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "trump/v1/frontend.proto",
}

// RegisterFrontendServer registers srv on s
func RegisterFrontendServer(s grpc.ServiceRegistrar, srv FrontendServer) {
	s.RegisterService(&FrontendServiceDesc, srv)
}

func parseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FrontendServer).Parse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodParse}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FrontendServer).Parse(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func tokenizeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FrontendServer).Tokenize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodTokenize}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FrontendServer).Tokenize(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the Frontend service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a Frontend client on an existing connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Parse parses source remotely
func (c *Client) Parse(ctx context.Context, source string, stats bool) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"source": source,
		"stats":  stats,
	})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodParse, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tokenize tokenizes source remotely
func (c *Client) Tokenize(ctx context.Context, source string) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]interface{}{"source": source})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodTokenize, req, out); err != nil {
		return nil, err
	}
	return out, nil
}
