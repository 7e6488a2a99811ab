package othello

// Configuration maps a mark to the cells it occupies when a board is set up.
type Configuration map[Mark][]int

// DefaultConfiguration seeds the four center cells in the standard pattern.
func DefaultConfiguration() Configuration {
	return Configuration{
		White: {27, 36},
		Black: {28, 35},
	}
}
