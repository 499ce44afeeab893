package order

import (
	"context"
	"errors"

	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/logger"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/menu"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/money"

	"go.uber.org/zap"
)

// PriceOracle answers the authoritative unit price of a menu item.
// menu.Repository satisfies it.
type PriceOracle interface {
	GetPrice(ctx context.Context, id int64) (money.Cents, error)
}

type Service interface {
	Place(ctx context.Context, userID int64, customer CustomerInfo, lines []Line) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	GetDetail(ctx context.Context, orderID, userID int64) (*Order, error)
}

type service struct {
	repo   Repository
	prices PriceOracle
}

func NewService(repo Repository, prices PriceOracle) Service {
	return &service{repo: repo, prices: prices}
}

// Place prices and persists an order.
//
// Each line's unit price is fetched exactly once and that snapshot is used
// both for the total and for the inserted row, so a concurrent menu price
// change cannot produce an order whose total disagrees with its items.
// A missing menu item aborts the whole placement before anything is written.
func (s *service) Place(ctx context.Context, userID int64, customer CustomerInfo, lines []Line) (int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("user_id", userID),
		zap.Int("line_count", len(lines)),
	)

	if len(lines) == 0 {
		return 0, ErrEmptyOrder
	}

	items := make([]Item, 0, len(lines))
	var total money.Cents

	for _, line := range lines {
		if line.Quantity <= 0 {
			return 0, ErrInvalidQuantity
		}

		price, err := s.prices.GetPrice(ctx, line.MenuID)
		if err != nil {
			if errors.Is(err, menu.ErrItemNotFound) {
				log.Warn("order rejected: unknown menu item", zap.Int64("menu_id", line.MenuID))
				return 0, &LineItemNotFoundError{MenuID: line.MenuID}
			}
			return 0, err
		}

		items = append(items, Item{
			MenuID:    line.MenuID,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
		total += price.Mul(line.Quantity)
	}

	o := &Order{
		UserID:   userID,
		Total:    total,
		Customer: customer,
		Status:   StatusPending,
		Items:    items,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return 0, err
	}

	log.Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.String("total", total.String()),
	)

	return o.ID, nil
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) GetDetail(ctx context.Context, orderID, userID int64) (*Order, error) {
	return s.repo.GetDetail(ctx, orderID, userID)
}
