package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/bib/services/credit-risk-service/internal/application/dto"
	"github.com/bibbank/bib/services/credit-risk-service/internal/application/usecase"
	"github.com/bibbank/bib/services/credit-risk-service/internal/artifact"
	"github.com/bibbank/bib/services/credit-risk-service/internal/feature"
)

// Compile-time assertion that RiskScoringHandler implements RiskScoringServiceServer.
var _ RiskScoringServiceServer = (*RiskScoringHandler)(nil)

// RiskScoringHandler implements the gRPC RiskScoringServiceServer interface.
type RiskScoringHandler struct {
	UnimplementedRiskScoringServiceServer
	scoreRecord *usecase.ScoreRecord
	logger      *slog.Logger
}

// NewRiskScoringHandler creates a new gRPC handler.
func NewRiskScoringHandler(scoreRecord *usecase.ScoreRecord, logger *slog.Logger) *RiskScoringHandler {
	return &RiskScoringHandler{
		scoreRecord: scoreRecord,
		logger:      logger,
	}
}

// Score handles the Score RPC.
func (h *RiskScoringHandler) Score(ctx context.Context, req *ScoreRequest) (*ScoreResponse, error) {
	if req == nil || len(req.Record) == 0 {
		return nil, status.Error(codes.InvalidArgument, "record is required")
	}

	record := make(feature.Record, len(req.Record))
	for k, v := range req.Record {
		record[k] = v
	}

	resp, err := h.scoreRecord.Execute(ctx, dto.ScoreRequest{Record: record})
	if err != nil {
		return nil, h.toStatus(err)
	}

	return &ScoreResponse{
		IsHighRisk:  int32(resp.IsHighRisk),
		Probability: resp.Probability,
	}, nil
}

func (h *RiskScoringHandler) toStatus(err error) error {
	var validationErr *feature.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, validationErr.Error())
	case errors.Is(err, artifact.ErrNotReady):
		return status.Error(codes.Unavailable, "model is not loaded")
	default:
		h.logger.Error("scoring RPC failed", slog.String("error", err.Error()))
		return status.Error(codes.Internal, "internal error")
	}
}
