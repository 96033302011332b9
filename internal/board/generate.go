package board

import (
	"fmt"
	"math/rand/v2"
)

// placeMines picks n distinct cells out of height*width. Excluded indices are
// never picked.
func placeMines(height, width, n int, r *rand.Rand, exclude ...int) ([]bool, error) {
	grid := make([]bool, height*width)

	skip := make(map[int]bool, len(exclude))
	for _, i := range exclude {
		skip[i] = true
	}

	/*
	 * Write down the list of possible mine locations.
	 */
	candidates := make([]int, 0, height*width)
	for i := range height * width {
		if !skip[i] {
			candidates = append(candidates, i)
		}
	}
	if n > len(candidates) {
		return nil, fmt.Errorf("%w: %d mines, %d free cells", ErrTooManyMines, n, len(candidates))
	}

	/*
	 * Now pick n off the list at random.
	 */
	k := len(candidates)
	for range n {
		i := r.IntN(k)
		grid[candidates[i]] = true
		k--
		candidates[i] = candidates[k]
	}
	return grid, nil
}
