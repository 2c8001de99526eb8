package oracle

import (
	"context"

	"pumpmc/pump"
	"pumpmc/replay"

	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// A client of the Oracle service.
type Client struct {
	conn *grpc.ClientConn
}

// Dial the Oracle service at addr.
func Dial(ctx context.Context, addr string, opts ...grpc.DialOption) (*Client, error) {
	conn, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

// Create a client using an existing connection.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, in, out interface{}) error {
	return c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out)
}

func (c *Client) Invariants(ctx context.Context) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.invoke(ctx, "Invariants", &empty.Empty{}, out); err != nil {
		return nil, err
	}
	names := make([]string, len(out.GetValues()))
	for i, v := range out.GetValues() {
		names[i] = v.GetStringValue()
	}
	return names, nil
}

// Replay the labels on the server from the initial state.
//
// A discrepancy is returned as a status error with code FailedPrecondition.
func (c *Client) Replay(ctx context.Context, labels []pump.Label) ([]replay.Step, error) {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{"labels": EncodeLabels(labels)}}
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "Replay", in, out); err != nil {
		return nil, err
	}
	trace, err := decodeSteps(out.GetFields()["steps"].GetListValue().GetValues())
	if err != nil {
		return nil, err
	}
	steps := make([]replay.Step, len(trace))
	for i, s := range trace {
		steps[i] = replay.Step{Label: s.Label, State: s.Expected}
	}
	return steps, nil
}

// Compare a trace of expected states with the implementation on the server.
func (c *Client) Compare(ctx context.Context, trace []replay.OracleStep) error {
	steps := make([]replay.Step, len(trace))
	for i, s := range trace {
		steps[i] = replay.Step{Label: s.Label, State: s.Expected}
	}
	in := &structpb.Struct{Fields: map[string]*structpb.Value{"steps": encodeSteps(steps)}}
	return c.invoke(ctx, "Compare", in, new(structpb.Struct))
}

func (c *Client) Simulate(ctx context.Context, maxSteps, maxSamples int, seed int64) (SimulationSummary, error) {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{
		"max_steps":   number(int64(maxSteps)),
		"max_samples": number(int64(maxSamples)),
		"seed":        bigNumber(seed),
	}}
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "Simulate", in, out); err != nil {
		return SimulationSummary{}, err
	}
	return decodeReport(out)
}

func (c *Client) Explore(ctx context.Context, depth int) (ExploreSummary, error) {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{"depth": number(int64(depth))}}
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "Explore", in, out); err != nil {
		return ExploreSummary{}, err
	}
	return decodeExplore(out)
}
