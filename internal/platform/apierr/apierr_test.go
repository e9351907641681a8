package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestResolve(t *testing.T) {
	cause := errors.New("member not found in household")
	wrapped := fmt.Errorf("simulate: %w", New(http.StatusBadRequest, "invalid_member", cause))

	status, code, err := Resolve(wrapped, http.StatusInternalServerError, "simulate_failed")
	if status != http.StatusBadRequest || code != "invalid_member" || err != cause {
		t.Fatalf("Resolve: got status=%d code=%q err=%v", status, code, err)
	}

	plain := errors.New("boom")
	status, code, err = Resolve(plain, http.StatusInternalServerError, "simulate_failed")
	if status != http.StatusInternalServerError || code != "simulate_failed" || err != plain {
		t.Fatalf("Resolve fallback: got status=%d code=%q err=%v", status, code, err)
	}

	status, code, err = Resolve(New(0, "", nil), http.StatusTeapot, "x")
	if status != http.StatusTeapot || code != "x" || err == nil {
		t.Fatalf("Resolve empty: got status=%d code=%q err=%v", status, code, err)
	}
}
