// Package transaction implements the Transaction repository using PostgreSQL.
// A lot is sold at most once; the lot_id unique constraint enforces it.
package transaction

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/callmeani/dream-marketplace/internal/adapter/postgres"
	"github.com/callmeani/dream-marketplace/internal/domain"
)

const (
	// transaction is a reserved word.
	table  = `"transaction"`
	entity = "transaction"
)

var columns = []string{"id", "buyer_id", "seller_id", "lot_id", "amount", "fee", "transaction_date"}

var returning = "RETURNING " + strings.Join(columns, ", ")

// Repo provides transaction persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new transaction repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID              int64           `db:"id"`
	BuyerID         int64           `db:"buyer_id"`
	SellerID        int64           `db:"seller_id"`
	LotID           int64           `db:"lot_id"`
	Amount          decimal.Decimal `db:"amount"`
	Fee             decimal.Decimal `db:"fee"`
	TransactionDate time.Time       `db:"transaction_date"`
}

func (r row) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:              r.ID,
		BuyerID:         r.BuyerID,
		SellerID:        r.SellerID,
		LotID:           r.LotID,
		Amount:          r.Amount,
		Fee:             r.Fee,
		TransactionDate: r.TransactionDate,
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetByID returns a transaction by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id}, id)
}

// GetByLotID returns the sale of a lot.
func (r *Repo) GetByLotID(ctx context.Context, lotID int64) (*domain.Transaction, error) {
	return r.getBy(ctx, squirrel.Eq{"lot_id": lotID}, lotID)
}

func (r *Repo) getBy(ctx context.Context, where squirrel.Eq, key int64) (*domain.Transaction, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(where)

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	return res.toDomain(), nil
}

// List returns transactions, most recent first, with pagination.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("transaction_date DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	rows, err := postgres.Select[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, "list")
	}

	out := make([]domain.Transaction, len(rows))
	for i, rw := range rows {
		out[i] = *rw.toDomain()
	}
	return out, nil
}

// Count returns the total number of transactions.
func (r *Repo) Count(ctx context.Context) (int, error) {
	query := postgres.Builder().Select("count(*)").From(table)

	n, err := postgres.Get[int](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return 0, postgres.MapError(err, entity, "count")
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Create records a sale. transaction_date is stamped here.
// A second sale of the same lot yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, t domain.Transaction) (*domain.Transaction, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	query := postgres.Builder().
		Insert(table).
		Columns("buyer_id", "seller_id", "lot_id", "amount", "fee", "transaction_date").
		Values(t.BuyerID, t.SellerID, t.LotID, t.Amount, t.Fee, postgres.Now()).
		Suffix(returning)

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, t.LotID)
	}
	return res.toDomain(), nil
}

// Update corrects the amount and fee of a sale. transaction_date is kept.
func (r *Repo) Update(ctx context.Context, id int64, amount, fee decimal.Decimal) (*domain.Transaction, error) {
	if err := domain.ValidateMoney(amount, fee); err != nil {
		return nil, err
	}

	query := postgres.Builder().
		Update(table).
		Set("amount", amount).
		Set("fee", fee).
		Where(squirrel.Eq{"id": id}).
		Suffix(returning)

	res, err := postgres.Get[row](ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return res.toDomain(), nil
}

// Delete removes a transaction.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	query := postgres.Builder().Delete(table).Where(squirrel.Eq{"id": id})

	tag, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), query)
	if err != nil {
		return postgres.MapDeleteError(err, entity, id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, entity, id)
	}
	return nil
}
