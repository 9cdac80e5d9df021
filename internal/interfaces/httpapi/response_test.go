package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

func TestWriteSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if ok, _ := body["ok"].(bool); !ok {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if ok, _ := body["ok"].(bool); ok {
		t.Fatalf("expected ok=false, got %v", body["ok"])
	}
	if got, _ := body["error"].(string); got != "invalid_input" {
		t.Fatalf("expected error kind invalid_input, got %v", body["error"])
	}
	if msg, _ := body["message"].(string); msg == "" {
		t.Fatalf("expected a message alongside the error kind")
	}
}

func TestMapError_SentinelStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{usecase.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{usecase.ErrNotFound, http.StatusNotFound, "not_found"},
		{usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{usecase.ErrPrecondition, http.StatusBadRequest, "precondition_failed"},
		{usecase.ErrNotEnoughTeams, http.StatusBadRequest, "not_enough_teams"},
		{usecase.ErrNameMismatch, http.StatusConflict, "name_mismatch"},
		{usecase.ErrAlreadyVerified, http.StatusConflict, "already_verified"},
		{usecase.ErrExternalUnavailable, http.StatusBadGateway, "external_unavailable"},
		{usecase.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		mapped := mapError(fmt.Errorf("wrap: %w", tc.err))
		if mapped.HTTPStatus != tc.status {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.status, mapped.HTTPStatus)
		}
		if mapped.Kind != tc.kind {
			t.Fatalf("%v: expected kind %q, got %q", tc.err, tc.kind, mapped.Kind)
		}
	}
}
