package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

func newTestProvider(t *testing.T, now func() time.Time) *TokenProvider {
	t.Helper()
	provider, err := NewTokenProvider("test-secret", TokenOptions{
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		Now:        now,
	})
	if err != nil {
		t.Fatalf("new token provider: %v", err)
	}
	return provider
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Qwpo1209!@")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "Qwpo1209!@" {
		t.Fatal("expected password to be hashed")
	}
	if err := hasher.Compare(hash, "Qwpo1209!@"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestNewPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	if h := NewPasswordHasher(1000); h.cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected cost: %d", h.cost)
	}
}

func TestNewTokenProvider_RequiresSecret(t *testing.T) {
	if _, err := NewTokenProvider("", TokenOptions{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestTokenProvider_IssueAndParse(t *testing.T) {
	provider := newTestProvider(t, time.Now)
	member := domain.Member{ID: 42, Username: "test2345", Role: domain.RoleAdmin}

	pair, err := provider.Issue(member)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.GrantType != "Bearer" || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("unexpected pair: %+v", pair)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}

	principal, err := provider.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if principal.MemberID != 42 || principal.Username != "test2345" || !principal.IsAdmin() {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	if _, err := provider.ParseRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
}

func TestTokenProvider_RejectsWrongType(t *testing.T) {
	provider := newTestProvider(t, time.Now)
	pair, err := provider.Issue(domain.Member{ID: 1, Username: "u", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := provider.ParseAccess(pair.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected refresh token to be rejected as access, got %v", err)
	}
	if _, err := provider.ParseRefresh(pair.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected access token to be rejected as refresh, got %v", err)
	}
}

func TestTokenProvider_RejectsExpiredAndForeign(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	past := newTestProvider(t, func() time.Time { return issuedAt })
	pair, err := past.Issue(domain.Member{ID: 1, Username: "u", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	current := newTestProvider(t, time.Now)
	if _, err := current.ParseAccess(pair.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected expired token error, got %v", err)
	}

	foreign, err := NewTokenProvider("other-secret", TokenOptions{})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	fresh, err := foreign.Issue(domain.Member{ID: 1, Username: "u", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := current.ParseAccess(fresh.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected signature error, got %v", err)
	}

	if _, err := current.ParseAccess("not-a-jwt"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected malformed token error, got %v", err)
	}
}

func TestPrincipalContext(t *testing.T) {
	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Fatal("expected no principal in empty context")
	}
	ctx := WithPrincipal(context.Background(), domain.Principal{MemberID: 5})
	principal, ok := PrincipalFromContext(ctx)
	if !ok || principal.MemberID != 5 {
		t.Fatalf("unexpected principal: %+v ok=%v", principal, ok)
	}
}
