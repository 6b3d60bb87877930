package grpc

import (
	"context"
	"math"

	grpclib "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/dashboard"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/logger"
)

// FinalsServiceServer is the server API for worldcup.FinalsService
type FinalsServiceServer interface {
	ListWinners(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	CountryWins(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	YearResult(context.Context, *wrapperspb.Int64Value) (*wrapperspb.StringValue, error)
	WinCounts(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// Server implements the gRPC FinalsService over the dashboard views
type Server struct {
	app *dashboard.App
}

// NewServer creates a new gRPC server
func NewServer(app *dashboard.App) *Server {
	return &Server{app: app}
}

// ListWinners returns every country that has won a final
func (s *Server) ListWinners(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error) {
	logger.Debug("gRPC: Listing winners")
	winners := s.app.AllWinners()
	values := make([]*structpb.Value, 0, len(winners))
	for _, w := range winners {
		values = append(values, structpb.NewStringValue(w))
	}
	return &structpb.ListValue{Values: values}, nil
}

// CountryWins returns the win summary sentence for a country, empty on a miss
func (s *Server) CountryWins(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	logger.Debug("gRPC: Country wins", "country", req.GetValue())
	return wrapperspb.String(s.app.CountryWins(req.GetValue())), nil
}

// YearResult returns the final summary sentence for a year, empty on a miss
func (s *Server) YearResult(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.StringValue, error) {
	logger.Debug("gRPC: Year result", "year", req.GetValue())
	year := req.GetValue()
	if year <= 0 || year > math.MaxInt32 {
		return wrapperspb.String(""), nil
	}
	return wrapperspb.String(s.app.YearResult(int(year))), nil
}

// WinCounts returns a country to wins mapping
func (s *Server) WinCounts(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	logger.Debug("gRPC: Win counts")
	counts := s.app.WinCounts()
	fields := make(map[string]*structpb.Value, len(counts))
	for _, c := range counts {
		fields[c.Country] = structpb.NewNumberValue(float64(c.Wins))
	}
	return &structpb.Struct{Fields: fields}, nil
}

// RegisterFinalsServiceServer registers srv on s
func RegisterFinalsServiceServer(s grpclib.ServiceRegistrar, srv FinalsServiceServer) {
	s.RegisterService(&FinalsServiceDesc, srv)
}

// FinalsServiceDesc describes worldcup.FinalsService. The messages are
// protobuf well-known types so the service needs no generated code.
var FinalsServiceDesc = grpclib.ServiceDesc{
	ServiceName: "worldcup.FinalsService",
	HandlerType: (*FinalsServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ListWinners", Handler: listWinnersHandler},
		{MethodName: "CountryWins", Handler: countryWinsHandler},
		{MethodName: "YearResult", Handler: yearResultHandler},
		{MethodName: "WinCounts", Handler: winCountsHandler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "worldcup/finals.proto",
}

const (
	listWinnersMethod = "/worldcup.FinalsService/ListWinners"
	countryWinsMethod = "/worldcup.FinalsService/CountryWins"
	yearResultMethod  = "/worldcup.FinalsService/YearResult"
	winCountsMethod   = "/worldcup.FinalsService/WinCounts"
)

func listWinnersHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FinalsServiceServer).ListWinners(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: listWinnersMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FinalsServiceServer).ListWinners(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func countryWinsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FinalsServiceServer).CountryWins(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: countryWinsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FinalsServiceServer).CountryWins(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func yearResultHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FinalsServiceServer).YearResult(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: yearResultMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FinalsServiceServer).YearResult(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func winCountsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FinalsServiceServer).WinCounts(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: winCountsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FinalsServiceServer).WinCounts(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
