// Package oracle exposes the harness over gRPC so that an external model
// checker can query invariants, replay its traces against the implementation
// and drive simulations or explorations remotely.
//
// Messages are protobuf well-known types (structpb), so the service needs no
// generated code. States are encoded as structs with snake_case field names
// and enum values by name; labels in their textual form, e.g. "RequestBolus(50)".
package oracle

import (
	"context"
	"log"
	"time"

	"pumpmc/checking"
	"pumpmc/config"
	"pumpmc/explorer"
	"pumpmc/pump"
	"pumpmc/replay"
	"pumpmc/simulator"

	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "pumpmc.oracle.Oracle"

// The methods of the Oracle service.
type OracleServer interface {
	// Names of the checked invariants, in reporting order
	Invariants(context.Context, *empty.Empty) (*structpb.ListValue, error)
	// {labels: [string], init?: state} -> {steps: [{label, state}]}
	Replay(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// {init?: state, steps: [{label, state}]} -> {}
	Compare(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// {max_steps, max_samples, seed} -> report
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// {depth} -> exploration result
	Explore(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unary[Req any](method string, call func(OracleServer, context.Context, *Req) (interface{}, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(OracleServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(OracleServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OracleServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Invariants", func(s OracleServer, ctx context.Context, in *empty.Empty) (interface{}, error) {
			return s.Invariants(ctx, in)
		}),
		unary("Replay", func(s OracleServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
			return s.Replay(ctx, in)
		}),
		unary("Compare", func(s OracleServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
			return s.Compare(ctx, in)
		}),
		unary("Simulate", func(s OracleServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
			return s.Simulate(ctx, in)
		}),
		unary("Explore", func(s OracleServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
			return s.Explore(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pumpmc/oracle.proto",
}

// Bounds on the work a single request may ask for.
// Requests above a bound are rejected with InvalidArgument.
type Limits struct {
	// Depth of an exploration
	MaxDepth int
	// Steps per trace of a simulation
	MaxSteps int
	// Traces of a simulation
	MaxSamples int
}

// Serves the Oracle service for one invariant checker.
type Server struct {
	checker *checking.InvariantChecker
	limits  Limits
}

// Create a new Server that accepts requests within limits.
func NewServer(checker *checking.InvariantChecker, limits Limits) *Server {
	return &Server{checker: checker, limits: limits}
}

// Register the Oracle service on srv.
func (s *Server) Register(srv *grpc.Server) {
	srv.RegisterService(&ServiceDesc, s)
}

func (s *Server) Invariants(ctx context.Context, _ *empty.Empty) (*structpb.ListValue, error) {
	names := s.checker.Names()
	values := make([]*structpb.Value, len(names))
	for i, name := range names {
		values[i] = structpb.NewStringValue(name)
	}
	return &structpb.ListValue{Values: values}, nil
}

// initState reads the optional "init" field of a request.
func initState(in *structpb.Struct) (pump.State, error) {
	init, ok := in.GetFields()["init"]
	if !ok {
		return pump.Init(), nil
	}
	return DecodeState(init.GetStructValue())
}

func invalid(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

func (s *Server) Replay(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	init, err := initState(in)
	if err != nil {
		return nil, invalid(err)
	}
	d := decoder{fields: in.GetFields()}
	values := d.list("labels", false)
	if d.err != nil {
		return nil, invalid(d.err)
	}
	labels, err := DecodeLabels(values)
	if err != nil {
		return nil, invalid(err)
	}

	steps, err := replay.ReplayWith(init, labels, s.checker)
	if err != nil {
		return nil, discrepancy(err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{"steps": encodeSteps(steps)}}, nil
}

func (s *Server) Compare(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	init, err := initState(in)
	if err != nil {
		return nil, invalid(err)
	}
	d := decoder{fields: in.GetFields()}
	values := d.list("steps", false)
	if d.err != nil {
		return nil, invalid(d.err)
	}
	trace, err := decodeSteps(values)
	if err != nil {
		return nil, invalid(err)
	}
	if err := replay.CompareOracle(init, trace); err != nil {
		return nil, discrepancy(err)
	}
	return &structpb.Struct{}, nil
}

// The trace disagrees with the implementation
func discrepancy(err error) error {
	return status.Error(codes.FailedPrecondition, err.Error())
}

func (s *Server) Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	d := decoder{fields: in.GetFields()}
	maxSteps := d.optionalInteger("max_steps", int64(min(config.DefaultMaxSteps, s.limits.MaxSteps)), true)
	maxSamples := d.optionalInteger("max_samples", int64(min(config.DefaultMaxSamples, s.limits.MaxSamples)), true)
	seed := d.bigInteger("seed", time.Now().UnixNano(), true)
	if d.err != nil {
		return nil, invalid(d.err)
	}
	if maxSteps < 0 || maxSteps > int64(s.limits.MaxSteps) {
		return nil, status.Errorf(codes.InvalidArgument, "max_steps must be between 0 and %v", s.limits.MaxSteps)
	}
	if maxSamples < 0 || maxSamples > int64(s.limits.MaxSamples) {
		return nil, status.Errorf(codes.InvalidArgument, "max_samples must be between 0 and %v", s.limits.MaxSamples)
	}
	report, err := simulator.NewSimulator(s.checker, int(maxSteps), int(maxSamples), seed, nil).SimulateContext(ctx)
	if err != nil {
		return nil, status.FromContextError(err).Err()
	}
	return encodeReport(report), nil
}

func (s *Server) Explore(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	init, err := initState(in)
	if err != nil {
		return nil, invalid(err)
	}
	d := decoder{fields: in.GetFields()}
	depth := d.integer("depth")
	if d.err != nil {
		return nil, invalid(d.err)
	}
	if depth < 0 || depth > int64(s.limits.MaxDepth) {
		return nil, status.Errorf(codes.InvalidArgument, "depth must be between 0 and %v", s.limits.MaxDepth)
	}
	result, err := explorer.ExploreContext(ctx, init, int(depth), s.checker)
	if err != nil {
		return nil, status.FromContextError(err).Err()
	}
	return encodeExplore(result), nil
}

// LoggingInterceptor logs every call with its duration and status code.
func LoggingInterceptor(logger *log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Printf("%v %v in %v", info.FullMethod, status.Code(err), time.Since(start))
		return resp, err
	}
}
