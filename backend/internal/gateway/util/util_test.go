package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"InvalidArgument", status.Error(codes.InvalidArgument, "bad input"), http.StatusBadRequest},
		{"Unauthenticated", status.Error(codes.Unauthenticated, "no token"), http.StatusUnauthorized},
		{"PermissionDenied", status.Error(codes.PermissionDenied, "not yours"), http.StatusForbidden},
		{"NotFound", status.Error(codes.NotFound, "gone"), http.StatusNotFound},
		{"AlreadyExists", status.Error(codes.AlreadyExists, "duplicate"), http.StatusConflict},
		{"Aborted", status.Error(codes.Aborted, "concurrent update"), http.StatusConflict},
		{"Unavailable", status.Error(codes.Unavailable, "provider down"), http.StatusServiceUnavailable},
		{"DeadlineExceeded", status.Error(codes.DeadlineExceeded, "slow"), http.StatusGatewayTimeout},
		{"Internal", status.Error(codes.Internal, "boom"), http.StatusInternalServerError},
		{"NonStatusError", errors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleServiceError(rec, tc.err)

			if rec.Code != tc.want {
				t.Errorf("expected HTTP %d, got %d", tc.want, rec.Code)
			}

			var body JSONError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if body.Success {
				t.Error("error response marked success")
			}
			if body.Message == "" {
				t.Error("error response missing message")
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body JSONResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if !body.Success {
		t.Error("success response not marked success")
	}
}

func TestExtractToken(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc123")

		token, err := ExtractToken(r)
		if err != nil {
			t.Fatalf("ExtractToken failed: %v", err)
		}
		if token != "abc123" {
			t.Errorf("expected abc123, got %q", token)
		}
	})

	t.Run("MissingHeader", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, err := ExtractToken(r); err == nil {
			t.Error("expected error for missing header")
		}
	})

	t.Run("WrongScheme", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic abc123")
		if _, err := ExtractToken(r); err == nil {
			t.Error("expected error for non-bearer scheme")
		}
	})
}
