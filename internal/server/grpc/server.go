// Package grpc exposes the document service over gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/logging"
	pb "github.com/dmitrijs2005/worktracker/internal/proto"
	"github.com/dmitrijs2005/worktracker/internal/server/models"
	"google.golang.org/grpc"
)

// DocumentService is the business logic behind the handlers.
type DocumentService interface {
	List(ctx context.Context, collection string) ([]*models.Document, error)
	Create(ctx context.Context, collection string, data []byte) (string, error)
	Replace(ctx context.Context, collection, id string, data []byte) error
	Delete(ctx context.Context, collection, id string) error
}

type GRPCServer struct {
	pb.UnimplementedDocumentStoreServer
	address   string
	documents DocumentService
	logger    logging.Logger

	// ShutdownTimeout bounds the graceful stop; zero waits for all calls.
	ShutdownTimeout time.Duration
}

func NewGRPCServer(a string, l logging.Logger, documents DocumentService) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		documents: documents,
	}
}

// newServer creates the gRPC server with interceptors and the service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoveryInterceptor, s.loggingInterceptor))
	pb.RegisterDocumentStoreServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled,
// then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.stop(srv)
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

// stop drains in-flight calls and forces the stop once ShutdownTimeout passes.
func (s *GRPCServer) stop(srv *grpc.Server) {
	if s.ShutdownTimeout <= 0 {
		srv.GracefulStop()
		return
	}

	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.ShutdownTimeout):
		srv.Stop()
	}
}
