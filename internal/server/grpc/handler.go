package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/worktracker/internal/common"
	pb "github.com/dmitrijs2005/worktracker/internal/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// toStatus maps service errors onto gRPC codes. Internal details are logged
// and not sent to the caller.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String("OK"), nil
}

func (s *GRPCServer) ListAll(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	docs, err := s.documents.List(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]pb.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, pb.Document{ID: d.ID, Data: d.Data})
	}
	list, err := pb.EncodeDocuments(out)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return list, nil
}

func (s *GRPCServer) Create(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	data, err := requestData(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	id, err := s.documents.Create(ctx, pb.StringField(req, pb.FieldCollection), data)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return wrapperspb.String(id), nil
}

func (s *GRPCServer) Replace(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	data, err := requestData(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	err = s.documents.Replace(ctx, pb.StringField(req, pb.FieldCollection), pb.StringField(req, pb.FieldID), data)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	err := s.documents.Delete(ctx, pb.StringField(req, pb.FieldCollection), pb.StringField(req, pb.FieldID))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

// requestData extracts the "data" object of a Create or Replace request.
func requestData(req *structpb.Struct) ([]byte, error) {
	body := pb.StructField(req, pb.FieldData)
	if body == nil {
		return nil, fmt.Errorf("%w: data object is required", common.ErrValidation)
	}
	return pb.DecodeData(body)
}
