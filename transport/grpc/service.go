package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// gossipServer is the server-side contract for the swim.Gossip service.
// It takes the place of the interface protoc would generate; the
// message itself is a pre-built well-known type (wrapperspb.BytesValue)
// carrying an opaque, codec-encoded payload, so nothing here depends on
// generated code.
type gossipServer interface {
	Exchange(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// gossipServiceDesc is the hand-written equivalent of what protoc-gen-go-grpc
// would emit for a service with a single unary Exchange method. grpc.ServiceDesc
// is a stable, documented part of google.golang.org/grpc's public API;
// describing it directly avoids generating and vendoring a .pb.go file
// for a one-method service.
var gossipServiceDesc = grpc.ServiceDesc{
	ServiceName: "swim.Gossip",
	HandlerType: (*gossipServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Exchange",
			Handler:    gossipExchangeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "swim/gossip.proto",
}

func gossipExchangeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(gossipServer).Exchange(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: gossipExchangeFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(gossipServer).Exchange(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

const gossipExchangeFullMethod = "/swim.Gossip/Exchange"

func registerGossipServer(s grpc.ServiceRegistrar, srv gossipServer) {
	s.RegisterService(&gossipServiceDesc, srv)
}
