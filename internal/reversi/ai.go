package reversi

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
)

const (
	DifficultyBeginner = "beginner"
	DifficultyNovice   = "novice"
	DifficultyExpert   = "expert"
	DifficultyMaster   = "master"
)

var ErrUnknownDifficulty = fmt.Errorf("unknown difficulty")

// searchDepths maps difficulty to lookahead depth. Beginner and Novice do
// not search; Expert and Master run negamax to the listed depth.
var searchDepths = map[string]int{
	DifficultyBeginner: 0,
	DifficultyNovice:   0,
	DifficultyExpert:   3,
	DifficultyMaster:   5,
}

// cellWeights is the classic positional matrix: corners dominate, cells next
// to an unclaimed corner are liabilities, edges are mildly good.
var cellWeights = [BoardSize][BoardSize]int{
	{100, -20, 10, 5, 5, 10, -20, 100},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{10, -2, 5, 1, 1, 5, -2, 10},
	{5, -2, 1, 1, 1, 1, -2, 5},
	{5, -2, 1, 1, 1, 1, -2, 5},
	{10, -2, 5, 1, 1, 5, -2, 10},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{100, -20, 10, 5, 5, 10, -20, 100},
}

var corners = [4]Move{
	{Row: 0, Col: 0},
	{Row: 0, Col: BoardSize - 1},
	{Row: BoardSize - 1, Col: 0},
	{Row: BoardSize - 1, Col: BoardSize - 1},
}

// SelectMove picks a move for player at the given difficulty. The seed makes
// Beginner reproducible; the other levels are deterministic and ignore it.
func SelectMove(state State, player, difficulty string, seed int64) (Move, error) {
	moves := ValidMoves(state, player)
	if len(moves) == 0 {
		return Move{}, apperror.ErrNoMoveAvailable
	}

	switch difficulty {
	case DifficultyBeginner:
		rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible move pick, not crypto
		return moves[rng.Intn(len(moves))], nil
	case DifficultyNovice:
		return greedyMove(state, player, moves), nil
	case DifficultyExpert, DifficultyMaster:
		return searchMove(state, player, moves, searchDepths[difficulty]), nil
	default:
		return Move{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}
}

// cellWeight returns the positional value of placing player on the cell. The
// penalty for corner-adjacent cells only applies while the corner itself is
// unclaimed.
func cellWeight(board Board, row, col int) int {
	weight := cellWeights[row][col]
	if weight >= 0 {
		return weight
	}

	for _, corner := range corners {
		if abs(corner.Row-row) <= 1 && abs(corner.Col-col) <= 1 && board[corner.Row][corner.Col] != EmptyCell {
			return 0
		}
	}

	return weight
}

// greedyMove scores each candidate by immediate flip count plus positional
// weight. Ties go to the first candidate in scan order.
func greedyMove(state State, player string, moves []Move) Move {
	best := moves[0]
	bestScore := math.MinInt

	for _, move := range moves {
		score := len(flipsFor(state.Board, player, move)) + cellWeight(state.Board, move.Row, move.Col)
		if score > bestScore {
			best = move
			bestScore = score
		}
	}

	return best
}

// evaluate is the leaf heuristic: positional weight differential from
// player's point of view.
func evaluate(board Board, player string) int {
	opponent := Opponent(player)

	score := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			switch board[row][col] {
			case player:
				score += cellWeight(board, row, col)
			case opponent:
				score -= cellWeight(board, row, col)
			}
		}
	}

	return score
}

// searchMove runs a fixed-depth negamax with alpha-beta pruning. Root moves
// are taken in ValidMoves order and only a strictly better score replaces the
// incumbent, so pruning never changes the chosen move versus a full search.
func searchMove(state State, player string, moves []Move, depth int) Move {
	best := moves[0]
	alpha := math.MinInt + 1

	for _, move := range moves {
		child, err := Apply(state, player, move)
		if err != nil {
			continue
		}

		score := -negamax(child, Opponent(player), depth-1, math.MinInt+1, -alpha)
		if score > alpha {
			best = move
			alpha = score
		}
	}

	return best
}

func negamax(state State, player string, depth int, alpha, beta int) int {
	if state.Status == StatusFinished {
		return terminalScore(state, player)
	}

	if depth <= 0 {
		return evaluate(state.Board, player)
	}

	moves := ValidMoves(state, player)
	if len(moves) == 0 {
		// forced pass: same depth budget, sign flipped for the opponent
		passed, err := Pass(state, player)
		if err != nil {
			return evaluate(state.Board, player)
		}
		return -negamax(passed, Opponent(player), depth, -beta, -alpha)
	}

	best := math.MinInt + 1
	for _, move := range moves {
		child, err := Apply(state, player, move)
		if err != nil {
			continue
		}

		score := -negamax(child, Opponent(player), depth-1, -beta, -alpha)
		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}

	return best
}

// terminalScore values a finished game far above any positional score, scaled
// by the final disc differential so bigger wins are preferred.
func terminalScore(state State, player string) int {
	diff := state.BlackCount - state.WhiteCount
	if player == PlayerWhite {
		diff = -diff
	}

	const winValue = 1 << 20
	switch {
	case diff > 0:
		return winValue + diff
	case diff < 0:
		return -winValue + diff
	default:
		return 0
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
