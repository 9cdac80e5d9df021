package habbo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		Logger:     logging.NewNop(),
	})
}

func TestProfile_DecodesPublicPayload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "habbofan99" {
			t.Errorf("expected name=habbofan99, got=%q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"uniqueId":"hhgb-1a2b","name":"habbofan99","motto":"WC-7KQ2M","figureString":"hd-180-1","online":false}`))
	})

	profile, err := client.Profile(context.Background(), "habbofan99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Motto != "WC-7KQ2M" {
		t.Fatalf("expected motto=WC-7KQ2M, got=%q", profile.Motto)
	}
	if profile.Name != "habbofan99" {
		t.Fatalf("expected name=habbofan99, got=%q", profile.Name)
	}
}

func TestMotto_UnknownUserIsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Motto(context.Background(), "ghost")
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected not found error, got=%v", err)
	}
}

func TestMotto_EmptyPayloadIsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Motto(context.Background(), "ghost")
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected not found error, got=%v", err)
	}
}

func TestMotto_ServerErrorsAreUnavailableAfterRetries(t *testing.T) {
	t.Parallel()

	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Motto(context.Background(), "habbofan99")
	if !errors.Is(err, usecase.ErrExternalUnavailable) {
		t.Fatalf("expected unavailable error, got=%v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt with zero retries, got=%d", calls)
	}
}

func TestMotto_BadRequestIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.Motto(context.Background(), "habbofan99")
	if err == nil {
		t.Fatal("expected an error for a 400 response")
	}
	if errors.Is(err, usecase.ErrExternalUnavailable) {
		t.Fatalf("a 400 should not read as transient, got=%v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one attempt, got=%d", calls)
	}
}

func TestMotto_RequiresName(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	_, err := client.Motto(context.Background(), "  ")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got=%v", err)
	}
}
