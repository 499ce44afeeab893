package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	GetDetail(ctx context.Context, orderID, userID int64) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Create inserts the order header and all its items in one transaction.
// Any failure before commit leaves zero rows behind. On success o.ID,
// o.OrderDate and o.Status are filled from the inserted row.
func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.Int64("user_id", o.UserID),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("db: failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("db: failed to rollback order transaction", zap.Error(rbErr))
			}
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_price, name, phone_number, email, address, state, city)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, order_date, status
	`,
		o.UserID,
		o.Total,
		o.Customer.Name,
		o.Customer.PhoneNumber,
		o.Customer.Email,
		o.Customer.Address,
		o.Customer.State,
		o.Customer.City,
	).Scan(&o.ID, &o.OrderDate, &o.Status)
	if err != nil {
		log.Error("db: failed to insert order", zap.Error(err))
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, menu_id, quantity, price_per_item)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`,
			item.OrderID,
			item.MenuID,
			item.Quantity,
			item.UnitPrice,
		).Scan(&item.ID)
		if err != nil {
			log.Error("db: failed to insert order item",
				zap.Int64("menu_id", item.MenuID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("db: failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	log := logger.FromCtx(ctx)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, total_price, name, phone_number, email, address, state, city, order_date, status
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC
	`, userID)
	if err != nil {
		log.Error("db: failed to query orders", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.Total,
			&o.Customer.Name,
			&o.Customer.PhoneNumber,
			&o.Customer.Email,
			&o.Customer.Address,
			&o.Customer.State,
			&o.Customer.City,
			&o.OrderDate,
			&o.Status,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// GetDetail loads one order with its items, joined with menu for display
// names. Orders owned by other users surface as ErrOrderNotFound.
func (r *repository) GetDetail(ctx context.Context, orderID, userID int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_price, name, phone_number, email, address, state, city, order_date, status
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID).Scan(
		&o.ID,
		&o.UserID,
		&o.Total,
		&o.Customer.Name,
		&o.Customer.PhoneNumber,
		&o.Customer.Email,
		&o.Customer.Address,
		&o.Customer.State,
		&o.Customer.City,
		&o.OrderDate,
		&o.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.menu_id, oi.quantity, oi.price_per_item, m.name
		FROM order_items oi
		JOIN menu m ON m.id = oi.menu_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.MenuID, &item.Quantity, &item.UnitPrice, &item.MenuName); err != nil {
			return nil, err
		}
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
	}

	return &o, rows.Err()
}
