package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

const (
	defaultIssuer     = "shopcheck"
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims - полезная нагрузка JWT.
type Claims struct {
	jwt.RegisteredClaims
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	TokenType string      `json:"typ"`
}

// TokenOptions задаёт параметры выпуска токенов.
type TokenOptions struct {
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// TokenProvider выпускает и проверяет пары access/refresh токенов (HS256).
type TokenProvider struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenProvider создаёт провайдер. Пустой секрет недопустим.
func NewTokenProvider(secret string, opts TokenOptions) (*TokenProvider, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if opts.Issuer == "" {
		opts.Issuer = defaultIssuer
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = defaultAccessTTL
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = defaultRefreshTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TokenProvider{
		secret:     []byte(secret),
		issuer:     opts.Issuer,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		now:        opts.Now,
	}, nil
}

// Issue выпускает новую пару токенов для участника.
func (p *TokenProvider) Issue(member domain.Member) (domain.TokenPair, error) {
	access, err := p.sign(member, tokenTypeAccess, p.accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := p.sign(member, tokenTypeRefresh, p.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		GrantType:    domain.GrantTypeBearer,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// ParseAccess проверяет access-токен и возвращает участника.
func (p *TokenProvider) ParseAccess(raw string) (domain.Principal, error) {
	return p.parse(raw, tokenTypeAccess)
}

// ParseRefresh проверяет refresh-токен и возвращает участника.
func (p *TokenProvider) ParseRefresh(raw string) (domain.Principal, error) {
	return p.parse(raw, tokenTypeRefresh)
}

func (p *TokenProvider) sign(member domain.Member, tokenType string, ttl time.Duration) (string, error) {
	now := p.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   strconv.FormatInt(member.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:  member.Username,
		Role:      member.Role,
		TokenType: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (p *TokenProvider) parse(raw, tokenType string) (domain.Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.TokenType != tokenType {
		return domain.Principal{}, fmt.Errorf("%w: expected %s token", domain.ErrInvalidToken, tokenType)
	}

	memberID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || memberID <= 0 {
		return domain.Principal{}, fmt.Errorf("%w: bad subject", domain.ErrInvalidToken)
	}

	return domain.Principal{
		MemberID: memberID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

type principalKey struct{}

// WithPrincipal кладёт аутентифицированного участника в контекст запроса.
func WithPrincipal(ctx context.Context, principal domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext достаёт участника, положенного WithPrincipal.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(domain.Principal)
	return principal, ok
}
