package grpc

import (
	"fmt"
	"log/slog"
	"net"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/bibbank/bib/services/credit-risk-service/internal/artifact"
)

// Server wraps the gRPC server with the risk scoring handler.
type Server struct {
	address    string
	grpcServer *grpc.Server
	logger     *slog.Logger
}

// NewServer creates a new gRPC server for the scoring service. The grpc
// health status mirrors the model context state: NOT_SERVING until the
// artifact has fully loaded.
func NewServer(handler *RiskScoringHandler, modelCtx *artifact.Context, address string, logger *slog.Logger) *Server {
	grpcServer := grpc.NewServer()

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	servingStatus := healthpb.HealthCheckResponse_NOT_SERVING
	if modelCtx.State() == artifact.StateReady {
		servingStatus = healthpb.HealthCheckResponse_SERVING
	}
	healthServer.SetServingStatus("credit-risk-service", servingStatus)

	RegisterRiskScoringServiceServer(grpcServer, handler)

	// Only enable reflection when GRPC_REFLECTION=true.
	if os.Getenv("GRPC_REFLECTION") == "true" {
		reflection.Register(grpcServer)
	}

	return &Server{
		grpcServer: grpcServer,
		logger:     logger,
		address:    address,
	}
}

// Start begins listening and serving gRPC requests.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}

	s.logger.Info("gRPC server starting",
		slog.String("address", s.address),
	)

	return s.grpcServer.Serve(listener)
}

// Stop gracefully stops the gRPC server.
func (s *Server) Stop() {
	s.logger.Info("gRPC server shutting down")
	s.grpcServer.GracefulStop()
}
