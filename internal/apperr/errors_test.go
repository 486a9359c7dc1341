package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromStatus(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrUpstream},
		{http.StatusBadGateway, ErrUpstream},
	}
	for _, tc := range cases {
		if got := FromStatus(tc.code); !errors.Is(got, tc.want) {
			t.Errorf("FromStatus(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestTransientSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("query database: %w", FromStatus(http.StatusTooManyRequests))
	if !Transient(wrapped) {
		t.Errorf("wrapped rate limit should be transient")
	}
	if Transient(FromStatus(http.StatusUnauthorized)) {
		t.Errorf("unauthorized is not transient")
	}
}
