package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/common"
	pb "github.com/dmitrijs2005/worktracker/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GRPCStore talks to the worktracker server. Every call gets its own
// timeout; failures are mapped onto the common sentinels.
type GRPCStore struct {
	conn    *grpc.ClientConn
	client  pb.DocumentStoreClient
	timeout time.Duration
}

// NewGRPCStore dials endpoint lazily; the first call establishes the
// connection.
func NewGRPCStore(endpoint string, timeout time.Duration) (*GRPCStore, error) {
	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &GRPCStore{conn: conn, client: pb.NewDocumentStoreClient(conn), timeout: timeout}, nil
}

func (s *GRPCStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCStore) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Ping checks the server is reachable and healthy.
func (s *GRPCStore) Ping(ctx context.Context) error {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetValue() != "OK" {
		return common.ErrUnavailable
	}
	return nil
}

func (s *GRPCStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	resp, err := s.client.ListAll(ctx, wrapperspb.String(collection))
	if err != nil {
		return nil, s.mapError(err)
	}
	return pb.DecodeDocuments(resp)
}

func (s *GRPCStore) Create(ctx context.Context, collection string, data []byte) (string, error) {
	body, err := pb.EncodeData(data)
	if err != nil {
		return "", err
	}

	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	resp, err := s.client.Create(ctx, pb.NewRequest(collection, "", body))
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.GetValue(), nil
}

func (s *GRPCStore) Replace(ctx context.Context, collection, id string, data []byte) error {
	body, err := pb.EncodeData(data)
	if err != nil {
		return err
	}

	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	_, err = s.client.Replace(ctx, pb.NewRequest(collection, id, body))
	return s.mapError(err)
}

func (s *GRPCStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	_, err := s.client.Delete(ctx, pb.NewRequest(collection, id, nil))
	return s.mapError(err)
}

func (s *GRPCStore) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrValidation, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return common.ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
