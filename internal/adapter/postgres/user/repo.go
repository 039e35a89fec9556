// Package user implements the UserAccount repository using PostgreSQL.
package user

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

const (
	table  = "user_account"
	entity = "user_account"
)

var columns = []string{"id", "yandex_id", "username", "email", "role", "balance", "created_at"}

// Repo provides user account persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID        int64           `db:"id"`
	YandexID  *string         `db:"yandex_id"`
	Username  string          `db:"username"`
	Email     string          `db:"email"`
	Role      string          `db:"role"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r row) toDomain() *domain.UserAccount {
	return &domain.UserAccount{
		ID:        r.ID,
		YandexID:  r.YandexID,
		Username:  r.Username,
		Email:     r.Email,
		Role:      domain.UserRole(r.Role),
		Balance:   r.Balance,
		CreatedAt: r.CreatedAt,
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetByID returns a user account by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.UserAccount, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id}, id)
}

// GetByEmail returns a user account by email address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email}, email)
}

// GetByYandexID returns a user account by its external identity.
func (r *Repo) GetByYandexID(ctx context.Context, yandexID string) (*domain.UserAccount, error) {
	return r.getBy(ctx, squirrel.Eq{"yandex_id": yandexID}, yandexID)
}

func (r *Repo) getBy(ctx context.Context, where squirrel.Eq, key any) (*domain.UserAccount, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(where)

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	return res.toDomain(), nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Create inserts a new account and returns it with id and created_at set.
// Role defaults to USER and a nil YandexID is stored as NULL. A duplicate
// email or yandex id yields
// domain.ErrAlreadyExists and nothing is written.
func (r *Repo) Create(ctx context.Context, u domain.UserAccount) (*domain.UserAccount, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if u.Role == "" {
		u.Role = domain.UserRoleUser
	}

	query := postgres.Builder().
		Insert(table).
		Columns("yandex_id", "username", "email", "role", "balance", "created_at").
		Values(u.YandexID, strings.TrimSpace(u.Username), strings.TrimSpace(u.Email),
			string(u.Role), u.Balance, postgres.Now()).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, u.Email)
	}
	return res.toDomain(), nil
}

// SetRole changes the role of the account with the given email.
// Returns false when no account matched.
func (r *Repo) SetRole(ctx context.Context, email string, role domain.UserRole) (bool, error) {
	if !role.IsValid() {
		return false, domain.NewValidationError("role", "unknown role")
	}

	query := postgres.Builder().
		Update(table).
		Set("role", string(role)).
		Where(squirrel.Eq{"email": email})

	tag, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return false, postgres.MapError(err, entity, email)
	}
	return tag.RowsAffected() > 0, nil
}
