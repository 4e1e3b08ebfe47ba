package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggerPassesResponseThrough(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("queued"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/run", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status: got %d, want 202", rec.Code)
	}
	if rec.Body.String() != "queued" {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestStatusRecorder(t *testing.T) {
	t.Run("keeps the first status", func(t *testing.T) {
		sr := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
		sr.WriteHeader(http.StatusNotFound)
		sr.WriteHeader(http.StatusInternalServerError)
		if sr.status != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", sr.status)
		}
	})

	t.Run("write without WriteHeader defaults to 200", func(t *testing.T) {
		sr := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
		if _, err := sr.Write([]byte("ok")); err != nil {
			t.Fatal(err)
		}
		if sr.status != http.StatusOK {
			t.Errorf("status: got %d, want 200", sr.status)
		}
	})

	t.Run("counts body bytes across writes", func(t *testing.T) {
		sr := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
		sr.Write([]byte("hello "))
		sr.Write([]byte("world"))
		if sr.bytes != 11 {
			t.Errorf("bytes: got %d, want 11", sr.bytes)
		}
	})
}
