package manager

import (
	"snake-game/game/types"
)

// CollisionManager answers collision queries for a single snake on a
// wrap-around grid. There are no walls, so the only fatal hit is the body.
type CollisionManager struct{}

func NewCollisionManager() *CollisionManager {
	return &CollisionManager{}
}

// HitsBody reports whether pos lands on any body segment
func (cm *CollisionManager) HitsBody(pos types.Cell, body []types.Cell) bool {
	for _, segment := range body {
		if segment == pos {
			return true
		}
	}
	return false
}

// IsFoodCollision checks if a position collides with food
func (cm *CollisionManager) IsFoodCollision(pos, food types.Cell) bool {
	return pos == food
}
