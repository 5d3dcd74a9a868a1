package server

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/rudransh61/Bhandar/pkg/bhandar"
)

var (
	// ErrTimeout is returned when a request's deadline passed, or its caller
	// went away, before the store was touched.
	ErrTimeout = errors.New("request timed out")

	// ErrInternal hides unexpected failures from callers.
	ErrInternal = errors.New("internal error")
)

const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultInvalid  = "invalid"
	resultTimeout  = "timeout"
	resultError    = "error"
)

func result(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, bhandar.ErrNotFound):
		return resultNotFound
	case errors.Is(err, bhandar.ErrInvalid):
		return resultInvalid
	case errors.Is(err, ErrTimeout):
		return resultTimeout
	default:
		return resultError
	}
}

// httpStatus maps an error from the Handler to a status code and the text
// shown to the caller.
func httpStatus(err error) (int, string) {
	var verr *bhandar.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, bhandar.ErrNotFound):
		return http.StatusNotFound, "key not found"
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout, ErrTimeout.Error()
	default:
		return http.StatusInternalServerError, ErrInternal.Error()
	}
}

func connectError(err error) *connect.Error {
	var verr *bhandar.ValidationError
	switch {
	case errors.As(err, &verr):
		return connect.NewError(connect.CodeInvalidArgument, verr)
	case errors.Is(err, bhandar.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, bhandar.ErrNotFound)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, ErrTimeout)
	case errors.Is(err, ErrTimeout):
		return connect.NewError(connect.CodeDeadlineExceeded, ErrTimeout)
	default:
		return connect.NewError(connect.CodeInternal, ErrInternal)
	}
}
