package order

import (
	"time"

	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/money"
)

type Status string

const StatusPending Status = "PENDING"

// Line is one requested (menu item, quantity) pair in a placement request.
type Line struct {
	MenuID   int64
	Quantity int
}

type CustomerInfo struct {
	Name        string
	PhoneNumber string
	Email       string
	Address     string
	City        string
	State       string
}

type Order struct {
	ID        int64
	UserID    int64
	Total     money.Cents
	Customer  CustomerInfo
	Status    Status
	OrderDate time.Time
	Items     []Item
}

// Item carries the unit price snapshotted at placement time; later menu
// price changes never affect it.
type Item struct {
	ID        int64
	OrderID   int64
	MenuID    int64
	Quantity  int
	UnitPrice money.Cents
	MenuName  string
}

// LineTotal is the per-line total computed from the snapshot price.
func (i Item) LineTotal() money.Cents {
	return i.UnitPrice.Mul(i.Quantity)
}
