package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

// memberRepositoryInMemory хранит участников и индексы по email/username.
type memberRepositoryInMemory struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]domain.Member
	byEmail    map[string]int64
	byUsername map[string]int64
}

// NewMemberRepository возвращает in-memory репозиторий участников.
func NewMemberRepository() domain.MemberRepository {
	return &memberRepositoryInMemory{
		byID:       make(map[int64]domain.Member),
		byEmail:    make(map[string]int64),
		byUsername: make(map[string]int64),
	}
}

// emailKey нормализует email: сравнение без учёта регистра.
func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create присваивает ID и сохраняет участника. Проверка уникальности
// выполняется под той же блокировкой, что и вставка.
func (r *memberRepositoryInMemory) Create(_ context.Context, member domain.Member) (domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[emailKey(member.Email)]; exists {
		return domain.Member{}, domain.ErrDuplicateEmail
	}
	if _, exists := r.byUsername[member.Username]; exists {
		return domain.Member{}, domain.ErrDuplicateUsername
	}

	r.nextID++
	now := time.Now().UTC()
	member.ID = r.nextID
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now

	r.byID[member.ID] = member
	r.byEmail[emailKey(member.Email)] = member.ID
	r.byUsername[member.Username] = member.ID
	return member, nil
}

func (r *memberRepositoryInMemory) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[emailKey(email)]
	return ok, nil
}

func (r *memberRepositoryInMemory) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUsername[username]
	return ok, nil
}

func (r *memberRepositoryInMemory) GetByID(_ context.Context, id int64) (domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, ok := r.byID[id]
	if !ok {
		return domain.Member{}, domain.ErrMemberNotFound
	}
	return member, nil
}

func (r *memberRepositoryInMemory) GetByUsername(_ context.Context, username string) (domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return domain.Member{}, domain.ErrMemberNotFound
	}
	return r.byID[id], nil
}

// Update перезаписывает профиль участника. Смена email проверяется на уникальность.
func (r *memberRepositoryInMemory) Update(_ context.Context, member domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[member.ID]
	if !ok {
		return domain.ErrMemberNotFound
	}

	oldKey, newKey := emailKey(current.Email), emailKey(member.Email)
	if oldKey != newKey {
		if _, taken := r.byEmail[newKey]; taken {
			return domain.ErrDuplicateEmail
		}
		delete(r.byEmail, oldKey)
		r.byEmail[newKey] = member.ID
	}

	// username неизменяем.
	member.Username = current.Username
	member.CreatedAt = current.CreatedAt
	member.UpdatedAt = time.Now().UTC()
	r.byID[member.ID] = member
	return nil
}

func (r *memberRepositoryInMemory) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	member, ok := r.byID[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, emailKey(member.Email))
	delete(r.byUsername, member.Username)
	return nil
}

var _ domain.MemberRepository = (*memberRepositoryInMemory)(nil)
