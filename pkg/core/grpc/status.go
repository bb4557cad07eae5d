package grpc

import (
	"errors"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts an error into a gRPC status error. Structured errors keep
// their message and map their code onto the closest gRPC code.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var e *mdwerror.Error
	if !errors.As(err, &e) {
		return status.Error(codes.Unknown, err.Error())
	}
	return status.Error(CodeFor(e.Code()), e.Error())
}

// CodeFor maps a structured error code onto a gRPC code
func CodeFor(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeInvalidInput, mdwerror.CodeLexical, mdwerror.CodeSyntax,
		mdwerror.CodeLiteralFormat, mdwerror.CodeInvalidConfig:
		return codes.InvalidArgument
	case mdwerror.CodeNotFound:
		return codes.NotFound
	case mdwerror.CodeTimeout:
		return codes.DeadlineExceeded
	case mdwerror.CodeServiceUnavailable:
		return codes.Unavailable
	case mdwerror.CodeInternal, mdwerror.CodeStorageError,
		mdwerror.CodeServiceError, mdwerror.CodeConfigError:
		return codes.Internal
	default:
		return codes.Unknown
	}
}
