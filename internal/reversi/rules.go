package reversi

import (
	"fmt"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
)

// flipsFor returns every opponent piece that placing player at move would
// flip, scanning all 8 directions. An empty result means the move is illegal.
func flipsFor(board Board, player string, move Move) []Move {
	if board[move.Row][move.Col] != EmptyCell {
		return nil
	}

	opponent := Opponent(player)

	var total []Move
	for _, dir := range directions {
		var line []Move

		row, col := move.Row+dir[0], move.Col+dir[1]
		for inBounds(row, col) && board[row][col] == opponent {
			line = append(line, Move{Row: row, Col: col})
			row += dir[0]
			col += dir[1]
		}

		// a capture line must end on one of the player's own pieces
		if len(line) > 0 && inBounds(row, col) && board[row][col] == player {
			total = append(total, line...)
		}
	}

	return total
}

// ValidMoves returns every legal move for player in row-major order.
func ValidMoves(state State, player string) []Move {
	var moves []Move
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			move := Move{Row: row, Col: col}
			if state.Board[row][col] == EmptyCell && len(flipsFor(state.Board, player, move)) > 0 {
				moves = append(moves, move)
			}
		}
	}
	return moves
}

// HasAnyMove reports whether player has at least one legal move.
func HasAnyMove(state State, player string) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			move := Move{Row: row, Col: col}
			if state.Board[row][col] == EmptyCell && len(flipsFor(state.Board, player, move)) > 0 {
				return true
			}
		}
	}
	return false
}

// Apply places player's piece at move, flips every captured piece and returns
// the resulting state. The input state is never modified.
func Apply(state State, player string, move Move) (State, error) {
	if !inBounds(move.Row, move.Col) {
		return state, fmt.Errorf("%w: row %d col %d", apperror.ErrOutOfBounds, move.Row, move.Col)
	}

	if state.Status == StatusFinished {
		return state, apperror.ErrGameFinished
	}

	if state.Turn != player {
		return state, apperror.ErrNotYourTurn
	}

	flips := flipsFor(state.Board, player, move)
	if len(flips) == 0 {
		return state, fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidMove, move.Row, move.Col)
	}

	next := state
	next.Board[move.Row][move.Col] = player
	for _, flip := range flips {
		next.Board[flip.Row][flip.Col] = player
	}

	next.BlackCount, next.WhiteCount = countPieces(next.Board)
	next.Turn = Opponent(player)

	return resolveStatus(next, player), nil
}

// Pass skips player's turn. A pass is only legal when player has no move.
func Pass(state State, player string) (State, error) {
	if state.Status == StatusFinished {
		return state, apperror.ErrGameFinished
	}

	if state.Turn != player {
		return state, apperror.ErrNotYourTurn
	}

	if HasAnyMove(state, player) {
		return state, apperror.ErrPassNotForced
	}

	next := state
	next.Turn = Opponent(player)

	return resolveStatus(next, player), nil
}

// resolveStatus inspects the position after mover acted and either hands the
// turn over, flags a forced pass, or finishes the game.
func resolveStatus(state State, mover string) State {
	opponent := Opponent(mover)

	switch {
	case HasAnyMove(state, opponent):
		state.Status = StatusOngoing
	case HasAnyMove(state, mover):
		// the opponent is blocked but the mover can still play: the caller
		// must submit a pass for the opponent, never skip it silently
		state.Status = StatusPassed
	default:
		state = finish(state)
	}

	return state
}

func finish(state State) State {
	state.Status = StatusFinished
	state.Turn = ""

	switch {
	case state.BlackCount > state.WhiteCount:
		state.Winner = PlayerBlack
	case state.WhiteCount > state.BlackCount:
		state.Winner = PlayerWhite
	default:
		state.Winner = PlayerTie
	}

	return state
}

// IsOver reports whether the game has ended: board full or neither player
// has a legal move, empty cells notwithstanding.
func IsOver(state State) bool {
	if state.Status == StatusFinished {
		return true
	}

	if boardFull(state.Board) {
		return true
	}

	return !HasAnyMove(state, PlayerBlack) && !HasAnyMove(state, PlayerWhite)
}

// Winner returns the result of a finished game along with both piece counts.
func Winner(state State) (string, int, int) {
	black, white := countPieces(state.Board)

	switch {
	case black > white:
		return PlayerBlack, black, white
	case white > black:
		return PlayerWhite, black, white
	default:
		return PlayerTie, black, white
	}
}

// Resign ends the game immediately with the opponent of player as winner.
func Resign(state State, player string) State {
	state.Status = StatusFinished
	state.Turn = ""
	state.Winner = Opponent(player)
	return state
}
