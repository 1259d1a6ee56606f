package grpc

import (
	"errors"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrAlreadyProcessed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrDuplicateRequest):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, common.ErrVerificationFailed):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.PermissionDenied, "unauthorized")
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	case errors.Is(err, common.ErrorMalformedPayload):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
