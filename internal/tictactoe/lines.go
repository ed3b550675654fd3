package tictactoe

import "github.com/rocketscienceinc/tictactoe-core/internal/entity"

var (
	mainDiagonal = entity.Line{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}}
	antiDiagonal = entity.Line{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}}
)

func rowLine(row int) entity.Line {
	var line entity.Line
	for col := range line {
		line[col] = entity.Coord{Row: row, Col: col}
	}
	return line
}

func colLine(col int) entity.Line {
	var line entity.Line
	for row := range line {
		line[row] = entity.Coord{Row: row, Col: col}
	}
	return line
}

// candidateLines returns the lines a move at row, col can complete. Both
// diagonals are always included.
func candidateLines(row, col int) []entity.Line {
	return []entity.Line{rowLine(row), colLine(col), mainDiagonal, antiDiagonal}
}

func isComplete(board *entity.Board, line entity.Line, mark entity.Token) bool {
	for _, coord := range line {
		if board.Token(coord.Row, coord.Col) != mark {
			return false
		}
	}
	return true
}

// winningLines returns every line through the move at row, col that is filled
// with mark.
func winningLines(board *entity.Board, mark entity.Token, row, col int) []entity.Line {
	var lines []entity.Line
	for _, line := range candidateLines(row, col) {
		if isComplete(board, line, mark) {
			lines = append(lines, line)
		}
	}
	return lines
}
