// Package member реализует регистрацию, вход и управление профилем участника.
package member

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopcheck/internal/auth"
	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
	"github.com/vladislavdragonenkov/shopcheck/internal/metrics"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/outbox"
)

// Service - сценарии участника магазина.
type Service struct {
	members domain.MemberRepository
	events  *outbox.Recorder
	hasher  *auth.PasswordHasher
	tokens  *auth.TokenProvider
	metrics *metrics.ShopMetrics
	logger  *log.Entry
}

// Option настраивает Service.
type Option func(*Service)

// WithEvents включает постановку событий member.joined в outbox.
func WithEvents(recorder *outbox.Recorder) Option {
	return func(s *Service) { s.events = recorder }
}

// WithMetrics задаёт метрики сервиса.
func WithMetrics(m *metrics.ShopMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService создаёт сервис участников.
func NewService(members domain.MemberRepository, hasher *auth.PasswordHasher, tokens *auth.TokenProvider, opts ...Option) *Service {
	s := &Service{
		members: members,
		hasher:  hasher,
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.WithField("component", "member-service")
	}
	return s
}

// Join регистрирует участника с заданной ролью.
//
// Порядок проверок фиксирован: пустые поля, длина username,
// уникальность email, уникальность username. Первые две проверки
// не обращаются к хранилищу.
func (s *Service) Join(ctx context.Context, in domain.JoinInput, role domain.Role) (domain.Member, error) {
	member, err := s.join(ctx, in, role)
	switch {
	case err == nil:
		s.metrics.RecordJoin(metrics.ResultSuccess)
	case isRejection(err):
		s.metrics.RecordJoin(metrics.ResultRejected)
	default:
		s.metrics.RecordJoin(metrics.ResultError)
	}
	return member, err
}

func (s *Service) join(ctx context.Context, in domain.JoinInput, role domain.Role) (domain.Member, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.Member{}, err
	}

	exists, err := s.members.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return domain.Member{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.Member{}, domain.ErrDuplicateEmail
	}

	exists, err = s.members.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return domain.Member{}, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return domain.Member{}, domain.ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.Member{}, err
	}

	// Repository повторно проверяет уникальность атомарно: между Exists и Create
	// может успеть пройти параллельная регистрация.
	member, err := s.members.Create(ctx, domain.Member{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         role,
		Address:      in.Address,
	})
	if err != nil {
		return domain.Member{}, err
	}

	s.events.Record(ctx, domain.AggregateMember, domain.MemberAggregateID(member.ID), domain.EventMemberJoined, domain.MemberJoinedEvent{
		MemberID: member.ID,
		Username: member.Username,
		Email:    member.Email,
		Role:     member.Role,
		JoinedAt: member.CreatedAt,
	})

	s.logger.WithFields(log.Fields{
		"member_id": member.ID,
		"role":      member.Role,
	}).Info("member joined")
	return member, nil
}

// SignIn проверяет учётные данные и выпускает пару токенов.
// Неизвестный username и неверный пароль неразличимы для клиента.
func (s *Service) SignIn(ctx context.Context, username, password string) (domain.TokenPair, error) {
	pair, err := s.signIn(ctx, username, password)
	switch {
	case err == nil:
		s.metrics.RecordSignIn(metrics.ResultSuccess)
	case errors.Is(err, domain.ErrInvalidCredentials):
		s.metrics.RecordSignIn(metrics.ResultRejected)
	default:
		s.metrics.RecordSignIn(metrics.ResultError)
	}
	return pair, err
}

func (s *Service) signIn(ctx context.Context, username, password string) (domain.TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	member, err := s.members.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return domain.TokenPair{}, domain.ErrInvalidCredentials
		}
		return domain.TokenPair{}, fmt.Errorf("load member: %w", err)
	}

	if err := s.hasher.Compare(member.PasswordHash, password); err != nil {
		return domain.TokenPair{}, err
	}

	return s.tokens.Issue(member)
}

// Refresh обменивает refresh-токен на новую пару.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	principal, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}
	member, err := s.members.GetByID(ctx, principal.MemberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return domain.TokenPair{}, domain.ErrInvalidToken
		}
		return domain.TokenPair{}, err
	}
	return s.tokens.Issue(member)
}

// Authenticate проверяет access-токен и то, что его участник ещё существует.
// Роль берётся из хранилища; токен удалённого участника даёт domain.ErrInvalidToken.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (domain.Principal, error) {
	principal, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return domain.Principal{}, err
	}
	member, err := s.members.GetByID(ctx, principal.MemberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return domain.Principal{}, domain.ErrInvalidToken
		}
		return domain.Principal{}, fmt.Errorf("load member: %w", err)
	}
	principal.Username = member.Username
	principal.Role = member.Role
	return principal, nil
}

// Current возвращает профиль участника.
func (s *Service) Current(ctx context.Context, memberID int64) (domain.Member, error) {
	return s.members.GetByID(ctx, memberID)
}

// UpdateInput - изменяемые поля профиля. Пустые значения не меняют профиль.
type UpdateInput struct {
	Name    string
	Email   string
	Address *domain.Address
}

// Update меняет профиль участника.
func (s *Service) Update(ctx context.Context, memberID int64, in UpdateInput) error {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		member.Name = name
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		member.Email = email
	}
	if in.Address != nil {
		member.Address = *in.Address
	}
	return s.members.Update(ctx, member)
}

// ChangePassword проверяет старый пароль и сохраняет хэш нового.
func (s *Service) ChangePassword(ctx context.Context, memberID int64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return domain.ErrPasswordRequired
	}
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(member.PasswordHash, oldPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return domain.ErrPasswordMismatch
		}
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	member.PasswordHash = hash
	return s.members.Update(ctx, member)
}

// Delete удаляет участника. Удалять можно себя; администратор может удалить любого.
func (s *Service) Delete(ctx context.Context, actor domain.Principal, memberID int64) error {
	if actor.MemberID != memberID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.members.Delete(ctx, memberID); err != nil {
		return err
	}
	s.logger.WithFields(log.Fields{
		"member_id": memberID,
		"actor_id":  actor.MemberID,
	}).Info("member deleted")
	return nil
}

// EnsureMember создаёт участника, если username ещё свободен. Используется для демо-данных.
func (s *Service) EnsureMember(ctx context.Context, in domain.JoinInput, role domain.Role) (domain.Member, error) {
	existing, err := s.members.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrMemberNotFound) {
		return domain.Member{}, err
	}
	return s.Join(ctx, in, role)
}

func isRejection(err error) bool {
	return errors.Is(err, domain.ErrEmailRequired) ||
		errors.Is(err, domain.ErrPasswordRequired) ||
		errors.Is(err, domain.ErrUsernameRequired) ||
		errors.Is(err, domain.ErrInvalidUsernameLength) ||
		domain.IsDuplicate(err)
}
