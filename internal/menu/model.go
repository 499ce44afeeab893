package menu

import "github.com/kaviyavarma08/Cafeteria-Management-System/internal/money"

type Item struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Price money.Cents `json:"price"`
}
