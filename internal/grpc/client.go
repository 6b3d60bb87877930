package grpc

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// FinalsServiceClient calls worldcup.FinalsService
type FinalsServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewFinalsServiceClient creates a client over an established connection
func NewFinalsServiceClient(cc grpclib.ClientConnInterface) *FinalsServiceClient {
	return &FinalsServiceClient{cc: cc}
}

func (c *FinalsServiceClient) ListWinners(ctx context.Context, in *emptypb.Empty, opts ...grpclib.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, listWinnersMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FinalsServiceClient) CountryWins(ctx context.Context, in *wrapperspb.StringValue, opts ...grpclib.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, countryWinsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FinalsServiceClient) YearResult(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpclib.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, yearResultMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FinalsServiceClient) WinCounts(ctx context.Context, in *emptypb.Empty, opts ...grpclib.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, winCountsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
