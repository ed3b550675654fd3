package entity

const (
	DefaultPlayerAName = "Player One"
	DefaultPlayerBName = "Player Two"
)

type Player struct {
	Name string `json:"name"`
	Mark Token  `json:"mark"`
	Wins int    `json:"wins"`
}

func NewPlayer(name string, mark Token) Player {
	return Player{
		Name: name,
		Mark: mark,
	}
}

// OppositeMark returns the token of the other player.
func OppositeMark(mark Token) Token {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
