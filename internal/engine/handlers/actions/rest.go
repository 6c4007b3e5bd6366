package actions

import (
	"fmt"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/engine/handlers"
)

// Отдых длится восемь игровых часов.
const restHours = 8

// HandleRest восстанавливает силы. Здоровье лечится напрямую,
// остальное - через дельту, чтобы сработали обычные ограничители.
func HandleRest(ctx handlers.Context) (handlers.Result, error) {
	ctx.Player.Health += 5
	if ctx.Player.Health > 100 {
		ctx.Player.Health = 100
	}

	return handlers.Result{
		Msg:     "You take a rest and regain some health.",
		MsgType: "INFO",
		Delta:   domain.StatDelta{Energy: 50},
		Hours:   restHours,
	}, nil
}

// HandleInventory показывает инвентарь и сводку характеристик.
func HandleInventory(ctx handlers.Context) (handlers.Result, error) {
	p := ctx.Player
	msg := fmt.Sprintf(
		"Inventory: %s\nHealth %d | Money %d | Energy %d | Hunger %d | Thirst %d | Alignment %d",
		p.Inventory, p.Health, p.Money, p.Energy, p.Hunger, p.Thirst, p.Alignment)
	return handlers.Result{Msg: msg, MsgType: "INFO"}, nil
}
