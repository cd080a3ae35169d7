package manager

import (
	"snake-game/game/types"

	"golang.org/x/exp/rand"
)

// FoodManager hands out random cells for spawning heads and food.
// It is not safe for concurrent use; a game owns exactly one.
type FoodManager struct {
	rng *rand.Rand
}

func NewFoodManager(seed uint64) *FoodManager {
	return &FoodManager{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// RandomCell picks each coordinate uniformly over the grid
func (fm *FoodManager) RandomCell(grid types.Grid) types.Cell {
	return types.Cell{
		X: fm.rng.Intn(grid.Width),
		Y: fm.rng.Intn(grid.Height),
	}
}

// Place rejection-samples a cell for which occupied returns false.
// occupiedCount is the number of distinct cells occupied on the grid; when it
// covers the whole grid there is nowhere to go and Place returns false.
func (fm *FoodManager) Place(grid types.Grid, occupiedCount int, occupied func(types.Cell) bool) (types.Cell, bool) {
	if occupiedCount >= grid.Area() {
		return types.Cell{}, false
	}

	for {
		food := fm.RandomCell(grid)
		if !occupied(food) {
			return food, true
		}
	}
}
