package api

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/splitpal/splitpal/internal/auth"
	"github.com/splitpal/splitpal/internal/ledger"
)

// connectError maps service errors onto Connect status codes.
func connectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	return connect.NewError(codeOf(err), err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, ledger.ErrNotAuthorized):
		return connect.CodePermissionDenied
	case errors.Is(err, ledger.ErrValidation), errors.Is(err, ledger.ErrGroupResolution):
		return connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrInsufficientCredits):
		return connect.CodeFailedPrecondition
	case errors.Is(err, ledger.ErrAlreadyExists):
		return connect.CodeAlreadyExists
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return connect.CodeUnauthenticated
	default:
		return connect.CodeInternal
	}
}
