package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

func TestLookupError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrInvalidUsernameLength, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", domain.ErrDuplicateEmail), http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrOrderNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := lookupError(tc.err); got.status != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, got.status)
		}
	}
}

func TestErrorMessagesAreDistinct(t *testing.T) {
	length := lookupError(domain.ErrInvalidUsernameLength).message
	for _, err := range []error{domain.ErrUsernameRequired, domain.ErrEmailRequired, domain.ErrPasswordRequired} {
		if lookupError(err).message == length {
			t.Fatalf("%v must not reuse the length message", err)
		}
	}
}
