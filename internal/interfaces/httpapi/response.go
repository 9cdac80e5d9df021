package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

// responseEnvelope is the wire shape of every reply: `{ok:true, data}` on
// success, `{ok:false, error:<kind>, message}` on failure.
type responseEnvelope struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Kind       string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, responseEnvelope{OK: true, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(err)
	writeJSON(ctx, w, mapped.HTTPStatus, responseEnvelope{
		OK:      false,
		Error:   mapped.Kind,
		Message: err.Error(),
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, responseEnvelope{
		OK:      false,
		Error:   "internal",
		Message: "internal server error",
	})
}

func mapError(err error) mappedError {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{HTTPStatus: http.StatusBadRequest, Kind: "invalid_input"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Kind: "not_found"}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{HTTPStatus: http.StatusUnauthorized, Kind: "unauthorized"}
	case errors.Is(err, usecase.ErrNotEnoughTeams):
		return mappedError{HTTPStatus: http.StatusBadRequest, Kind: "not_enough_teams"}
	case errors.Is(err, usecase.ErrNameMismatch):
		return mappedError{HTTPStatus: http.StatusConflict, Kind: "name_mismatch"}
	case errors.Is(err, usecase.ErrAlreadyVerified):
		return mappedError{HTTPStatus: http.StatusConflict, Kind: "already_verified"}
	case errors.Is(err, usecase.ErrPrecondition):
		return mappedError{HTTPStatus: http.StatusBadRequest, Kind: "precondition_failed"}
	case errors.Is(err, usecase.ErrExternalUnavailable):
		return mappedError{HTTPStatus: http.StatusBadGateway, Kind: "external_unavailable"}
	case errors.Is(err, usecase.ErrStorageUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Kind: "storage_unavailable"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Kind: "internal"}
	}
}
