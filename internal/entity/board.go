package entity

// BoardSize is the number of rows and columns on the board.
const BoardSize = 3

// CellCount is the number of cells on a full board.
const CellCount = BoardSize * BoardSize

type Token string

const (
	EmptyCell Token = ""
	PlayerX   Token = "X"
	PlayerO   Token = "O"
)

// Coord addresses a single cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Line is a row, column or diagonal of the board.
type Line [BoardSize]Coord

type Cell struct {
	Token   Token `json:"token"`
	Winning bool  `json:"winning,omitempty"`
}

func (that Cell) IsEmpty() bool {
	return that.Token == EmptyCell
}

// Board is the 3x3 grid. The zero value is an empty board.
type Board [BoardSize][BoardSize]Cell

// InBounds reports whether row and col address a cell of the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// PlaceToken writes token into the cell at row, col. It does not check
// occupancy; callers validate the move first.
func (that *Board) PlaceToken(token Token, row, col int) {
	that[row][col].Token = token
}

// Reset replaces every cell with an empty one.
func (that *Board) Reset() {
	*that = Board{}
}

func (that *Board) Token(row, col int) Token {
	return that[row][col].Token
}

func (that *Board) IsEmpty(row, col int) bool {
	return that[row][col].IsEmpty()
}

// MarkWinningLine flags the cells of line for highlighting.
func (that *Board) MarkWinningLine(line Line) {
	for _, coord := range line {
		that[coord.Row][coord.Col].Winning = true
	}
}

// Filled returns the number of non-empty cells.
func (that *Board) Filled() int {
	filled := 0
	for row := range that {
		for col := range that[row] {
			if !that[row][col].IsEmpty() {
				filled++
			}
		}
	}

	return filled
}

// WinningCells returns the flagged cells in row-major order.
func (that *Board) WinningCells() []Coord {
	var cells []Coord
	for row := range that {
		for col := range that[row] {
			if that[row][col].Winning {
				cells = append(cells, Coord{Row: row, Col: col})
			}
		}
	}

	return cells
}

// Snapshot returns a copy of the board that is safe to hand out for rendering.
func (that *Board) Snapshot() Board {
	return *that
}
