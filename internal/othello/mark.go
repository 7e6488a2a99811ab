package othello

// Mark is the occupant of a single board cell.
type Mark int8

const (
	Empty Mark = iota
	Black
	White
)

// Other swaps Black and White, Empty stays Empty.
func (m Mark) Other() Mark {
	switch m {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (m Mark) String() string {
	switch m {
	case Black:
		return "BLACK"
	case White:
		return "WHITE"
	default:
		return "EMPTY"
	}
}
