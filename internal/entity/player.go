package entity

const botIDPrefix = "bot:"

type Player struct {
	ID     string `json:"id"`
	Color  string `json:"color,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

func (that *Player) IsBot() bool {
	return len(that.ID) >= len(botIDPrefix) && that.ID[:len(botIDPrefix)] == botIDPrefix
}

func NewBotPlayer(gameID string) *Player {
	return &Player{
		ID:     botIDPrefix + gameID,
		GameID: gameID,
	}
}
