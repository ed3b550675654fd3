package entity

// GameView is everything a presentation layer needs to render a session.
type GameView struct {
	ID           string    `json:"id"`
	Board        Board     `json:"board"`
	ActivePlayer Player    `json:"active_player"`
	State        GameState `json:"state"`
	Turn         int       `json:"turn"`
	Scores       Scores    `json:"scores"`
	Players      [2]Player `json:"players"`
}

func NewGameView(game *Game) *GameView {
	view := &GameView{
		ID:      game.ID,
		Board:   game.Board.Snapshot(),
		State:   game.State(),
		Turn:    game.TurnCount,
		Scores:  game.Scores(),
		Players: game.Players,
	}

	if active := game.PlayerByMark(game.Turn); active != nil {
		view.ActivePlayer = *active
	}

	return view
}
