package reversi

const (
	BoardSize = 8

	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusPassed   = "passed"

	PlayerBlack = "B"
	PlayerWhite = "W"
	PlayerTie   = "-"

	EmptyCell = ""
)

// directions are the 8 compass offsets used when scanning for flips.
var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Board is an 8x8 grid; each cell holds PlayerBlack, PlayerWhite or EmptyCell.
type Board [BoardSize][BoardSize]string

// Move is a 0-indexed board coordinate.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// State is the full game state. It is a value: every mutation returns a new
// State and leaves the input untouched.
type State struct {
	Board      Board  `json:"board"`
	Turn       string `json:"turn"`
	BlackCount int    `json:"black_count"`
	WhiteCount int    `json:"white_count"`
	Status     string `json:"status"`
	Winner     string `json:"winner,omitempty"`
}

// NewState returns the standard opening position, Black to move.
func NewState() State {
	var board Board
	mid := BoardSize / 2
	board[mid-1][mid-1], board[mid][mid] = PlayerWhite, PlayerWhite
	board[mid-1][mid], board[mid][mid-1] = PlayerBlack, PlayerBlack

	return State{
		Board:      board,
		Turn:       PlayerBlack,
		BlackCount: 2,
		WhiteCount: 2,
		Status:     StatusOngoing,
	}
}

func Opponent(player string) string {
	if player == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

func inBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func countPieces(board Board) (int, int) {
	black, white := 0, 0
	for row := range board {
		for col := range board[row] {
			switch board[row][col] {
			case PlayerBlack:
				black++
			case PlayerWhite:
				white++
			}
		}
	}
	return black, white
}

func boardFull(board Board) bool {
	for row := range board {
		for col := range board[row] {
			if board[row][col] == EmptyCell {
				return false
			}
		}
	}
	return true
}
