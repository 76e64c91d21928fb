package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "hoops.v1.Simulator"

const (
	simulateGameMethod = "/" + ServiceName + "/SimulateGame"
	replicateMethod    = "/" + ServiceName + "/Replicate"
)

// SimulatorServer is the gRPC surface. Requests and responses are
// google.protobuf.Struct documents with the same shape as the HTTP bodies.
type SimulatorServer interface {
	SimulateGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Replicate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterSimulatorServer(s grpc.ServiceRegistrar, srv SimulatorServer) {
	s.RegisterService(&SimulatorServiceDesc, srv)
}

func simulateGameHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).SimulateGame(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: simulateGameMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulatorServer).SimulateGame(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func replicateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).Replicate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: replicateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulatorServer).Replicate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var SimulatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SimulateGame", Handler: simulateGameHandler},
		{MethodName: "Replicate", Handler: replicateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hoops/v1/simulator.proto",
}

// SimulatorClient calls a remote Simulator.
type SimulatorClient struct {
	cc grpc.ClientConnInterface
}

func NewSimulatorClient(cc grpc.ClientConnInterface) *SimulatorClient {
	return &SimulatorClient{cc: cc}
}

func (c *SimulatorClient) SimulateGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, simulateGameMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SimulatorClient) Replicate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, replicateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ToStruct converts a JSON-tagged value into a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("encode struct: %w", err)
	}
	return out, nil
}

// FromStruct decodes a Struct into a JSON-tagged value.
func FromStruct(s *structpb.Struct, v any) error {
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode struct: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// grpcSimulator adapts Service to SimulatorServer.
type grpcSimulator struct {
	svc *Service
}

func NewGRPCSimulator(svc *Service) SimulatorServer {
	return &grpcSimulator{svc: svc}
}

func (g *grpcSimulator) SimulateGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SimulateRequest
	if err := FromStruct(in, &req); err != nil {
		return nil, toStatus(err)
	}
	res, err := g.svc.SimulateGame(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := ToStruct(res)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (g *grpcSimulator) Replicate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ReplicateRequest
	if err := FromStruct(in, &req); err != nil {
		return nil, toStatus(err)
	}
	sum, err := g.svc.Replicate(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := ToStruct(sum)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case clientError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case ctxError(err):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
