package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

const (
	constraintMemberUsername = "members_username_key"
	constraintMemberEmail    = "members_email_key"

	memberColumns = `id, username, email, password_hash, name, role,
		address, detailed_address, zip_code, created_at, updated_at`
)

type memberRepository struct {
	db *sql.DB
}

// NewMemberRepository создаёт PostgreSQL-реализацию MemberRepository.
func NewMemberRepository(store *Store) domain.MemberRepository {
	return &memberRepository{db: store.DB()}
}

// Create вставляет участника. Гонку параллельных регистраций разрешают
// уникальные индексы: нарушение переводится в доменную ошибку по имени ограничения.
func (r *memberRepository) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO members (
			username, email, password_hash, name, role,
			address, detailed_address, zip_code, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id
	`,
		member.Username, member.Email, member.PasswordHash, member.Name, string(member.Role),
		member.Address.Address, member.Address.DetailedAddress, member.Address.ZipCode,
		member.CreatedAt, member.UpdatedAt,
	).Scan(&member.ID)
	if err != nil {
		if dup := duplicateMemberError(err); dup != nil {
			return domain.Member{}, dup
		}
		return domain.Member{}, fmt.Errorf("insert member: %w", err)
	}
	return member, nil
}

func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE LOWER(email) = LOWER($1))`, email)
}

func (r *memberRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE username = $1)`, username)
}

func (r *memberRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("check member exists: %w", err)
	}
	return exists, nil
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (domain.Member, error) {
	return r.get(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
}

func (r *memberRepository) GetByUsername(ctx context.Context, username string) (domain.Member, error) {
	return r.get(ctx, `SELECT `+memberColumns+` FROM members WHERE username = $1`, username)
}

func (r *memberRepository) get(ctx context.Context, query string, arg any) (domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		member domain.Member
		role   string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&member.ID, &member.Username, &member.Email, &member.PasswordHash, &member.Name, &role,
		&member.Address.Address, &member.Address.DetailedAddress, &member.Address.ZipCode,
		&member.CreatedAt, &member.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Member{}, domain.ErrMemberNotFound
		}
		return domain.Member{}, fmt.Errorf("select member: %w", err)
	}
	member.Role = domain.Role(role)
	return member, nil
}

// Update меняет профиль и хэш пароля; username не меняется.
func (r *memberRepository) Update(ctx context.Context, member domain.Member) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE members
		SET email = $2,
		    password_hash = $3,
		    name = $4,
		    address = $5,
		    detailed_address = $6,
		    zip_code = $7,
		    updated_at = $8
		WHERE id = $1
	`,
		member.ID, member.Email, member.PasswordHash, member.Name,
		member.Address.Address, member.Address.DetailedAddress, member.Address.ZipCode,
		time.Now().UTC(),
	)
	if err != nil {
		if dup := duplicateMemberError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update member: %w", err)
	}
	return expectAffected(res, domain.ErrMemberNotFound)
}

func (r *memberRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return expectAffected(res, domain.ErrMemberNotFound)
}

// duplicateMemberError возвращает доменную ошибку для нарушения уникальности или nil.
func duplicateMemberError(err error) error {
	pgErr, ok := pgError(err, pgUniqueViolation)
	if !ok {
		return nil
	}
	switch pgErr.ConstraintName {
	case constraintMemberUsername:
		return domain.ErrDuplicateUsername
	case constraintMemberEmail:
		return domain.ErrDuplicateEmail
	default:
		return fmt.Errorf("unexpected unique violation %s: %w", pgErr.ConstraintName, err)
	}
}

// expectAffected возвращает notFound, если запрос не затронул ни одной строки.
func expectAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

var _ domain.MemberRepository = (*memberRepository)(nil)
