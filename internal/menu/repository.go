package menu

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/logger"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/money"

	"go.uber.org/zap"
)

var ErrItemNotFound = errors.New("menu item not found")

type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetPrice(ctx context.Context, id int64) (money.Cents, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Item, error) {
	log := logger.FromCtx(ctx)

	rows, err := r.db.QueryContext(ctx, "SELECT id, name, price FROM menu ORDER BY id")
	if err != nil {
		log.Error("db: failed to query menu", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetPrice returns the authoritative current unit price of one menu item.
func (r *repository) GetPrice(ctx context.Context, id int64) (money.Cents, error) {
	var price money.Cents
	err := r.db.QueryRowContext(ctx,
		"SELECT price FROM menu WHERE id = $1",
		id,
	).Scan(&price)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrItemNotFound
	}

	return price, err
}
