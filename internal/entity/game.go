package entity

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

const (
	PublicType  = "public"
	PrivateType = "private"
	WithBotType = "bot"
)

var ErrUnknownGameStatus = fmt.Errorf("unknown game status")

// Game is one room: the rules-engine state plus the players attached to it.
// The room status is separate from the board status: a room is waiting until
// the second player (or the bot) joins.
type Game struct {
	ID         string        `json:"id"`
	State      reversi.State `json:"state"`
	Status     string        `json:"status"`
	Players    []*Player     `json:"players,omitempty"`
	Type       string        `json:"type,omitempty"`
	Difficulty string        `json:"difficulty,omitempty"`
}

func NewGame(id, gameType, difficulty string) *Game {
	return &Game{
		ID:         id,
		State:      reversi.NewState(),
		Status:     StatusWaiting,
		Type:       gameType,
		Difficulty: difficulty,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

// SyncStatus copies the board verdict up to the room after a move or pass.
func (that *Game) SyncStatus() {
	if that.State.Status == reversi.StatusFinished {
		that.Status = StatusFinished
	}
}

// PlayerByColor returns the player holding the given color, or nil.
func (that *Game) PlayerByColor(color string) *Player {
	for _, player := range that.Players {
		if player.Color == color {
			return player
		}
	}
	return nil
}

// BotPlayer returns the bot participant, or nil for human-only rooms.
func (that *Game) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}
	return nil
}

func (that *Game) GetRandomColors() (string, string) {
	if rand.Intn(2) == 0 { //nolint:gosec // it's ok
		return reversi.PlayerBlack, reversi.PlayerWhite
	}
	return reversi.PlayerWhite, reversi.PlayerBlack
}
