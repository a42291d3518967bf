package grpc

// proto.go defines the gRPC server interface derived from
// bib/creditrisk/v1/creditrisk.proto. This file serves as a stand-in for
// buf-generated code. Once `buf generate` is run, replace this file with the
// import from github.com/bibbank/bib/api/gen/go/bib/creditrisk/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RiskScoringServiceServer is the server API for RiskScoringService.
type RiskScoringServiceServer interface {
	Score(context.Context, *ScoreRequest) (*ScoreResponse, error)
	mustEmbedUnimplementedRiskScoringServiceServer()
}

// UnimplementedRiskScoringServiceServer provides forward-compatible default implementations.
type UnimplementedRiskScoringServiceServer struct{}

func (UnimplementedRiskScoringServiceServer) Score(context.Context, *ScoreRequest) (*ScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Score not implemented")
}
func (UnimplementedRiskScoringServiceServer) mustEmbedUnimplementedRiskScoringServiceServer() {}

// ScoreRequest represents the proto ScoreRequest message: one flat record to
// score, with string-encoded field values.
type ScoreRequest struct {
	Record map[string]string `json:"record"`
}

// ScoreResponse represents the proto ScoreResponse message.
type ScoreResponse struct {
	IsHighRisk  int32   `json:"is_high_risk"`
	Probability float64 `json:"probability"`
}

// RegisterRiskScoringServiceServer registers the server with the gRPC server.
func RegisterRiskScoringServiceServer(s *grpclib.Server, srv RiskScoringServiceServer) {
	s.RegisterService(&_RiskScoringService_serviceDesc, srv)
}

var _RiskScoringService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "bib.creditrisk.v1.RiskScoringService",
	HandlerType: (*RiskScoringServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Score", Handler: _RiskScoringService_Score_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _RiskScoringService_Score_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ScoreRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskScoringServiceServer).Score(ctx, req)
}
