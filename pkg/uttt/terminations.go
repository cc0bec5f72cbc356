package uttt

// horizontal, vertical and diagonal lines
var _patterns = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Check if any of the 8 lines is fully occupied by one player, returns
// that player or Empty. Works the same for the cells of a sub-board and
// for the winners of the 9 sub-boards.
func CheckLineWinner(slots [9]Player) Player {
	for i := 0; i < 8; i++ {
		if v := slots[_patterns[i][0]]; v != Empty &&
			v == slots[_patterns[i][1]] &&
			v == slots[_patterns[i][2]] {
			return v
		}
	}
	return Empty
}

// Check if given slice is filled with items other than 'none'
func _isFilled[T comparable](arr []T, none T) bool {
	is_filled := true
	for i := 0; is_filled && i < len(arr); i++ {
		is_filled = arr[i] != none
	}
	return is_filled
}

// UpdateSubBoard builds a sub-board from its cells, deriving the winner
// and the draw flag.
func UpdateSubBoard(cells [9]Player) SubBoard {
	sb := SubBoard{Cells: cells, Winner: CheckLineWinner(cells)}
	sb.Draw = sb.Winner == Empty && _isFilled(cells[:], Empty)
	return sb
}

// Resolve the whole game from the sub-board states, returns (winner, draw)
func checkOverall(boards [9]SubBoard) (Player, bool) {
	var winners [9]Player
	decided := true
	for i := range boards {
		winners[i] = boards[i].Winner
		if !boards[i].Decided() {
			decided = false
		}
	}

	if w := CheckLineWinner(winners); w != Empty {
		return w, false
	}

	// No winner, if every board is resolved, that's a draw
	return Empty, decided
}

// Check if the game has ended, either by win or by draw
func (p Position) IsTerminated() bool {
	return p.Winner != Empty || p.Draw
}
