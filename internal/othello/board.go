package othello

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
)

const (
	Dim  = 8
	Size = Dim * Dim

	// PassMove is the move index a player sends when it has no legal move.
	PassMove = Size
)

// direction is a single compass step expressed as a row and column delta.
type direction struct {
	row, col int
}

// N, NE, E, SE, S, SW, W, NW.
var directions = [...]direction{
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

// Board is the 8x8 Othello grid. Cells are numbered row-major:
//
//	 0  1  2  3  4  5  6  7
//	 8  9 10 11 12 13 14 15
//	...
//	56 57 58 59 60 61 62 63
//
// The cells live in an array, so copying a Board value copies the whole grid.
type Board struct {
	fields [Size]Mark
}

// NewBoard creates a board with the cells of conf pre-occupied.
// Indices outside the board are ignored.
func NewBoard(conf Configuration) *Board {
	board := &Board{}

	for _, mark := range []Mark{White, Black} {
		for _, index := range conf[mark] {
			if IsField(index) {
				board.fields[index] = mark
			}
		}
	}

	return board
}

// NewDefaultBoard - creates a board in the standard starting position.
func NewDefaultBoard() *Board {
	return NewBoard(DefaultConfiguration())
}

func IsField(index int) bool {
	return index >= 0 && index < Size
}

func row(index int) int {
	return index / Dim
}

func column(index int) int {
	return index % Dim
}

// next returns the neighbour of index in dir, or false at the edge.
func next(index int, dir direction) (int, bool) {
	r, c := row(index)+dir.row, column(index)+dir.col
	if r < 0 || r >= Dim || c < 0 || c >= Dim {
		return 0, false
	}

	return r*Dim + c, true
}

// DeepCopy returns an independent board with the same cells.
func (that *Board) DeepCopy() *Board {
	dup := *that
	return &dup
}

// Fields returns a copy of all cells.
func (that *Board) Fields() [Size]Mark {
	return that.fields
}

func (that *Board) Field(index int) (Mark, error) {
	if !IsField(index) {
		return Empty, fmt.Errorf("%w: index %d", apperror.ErrInvalidField, index)
	}

	return that.fields[index], nil
}

// SetField places mark on index and flips every captured cell.
// The board is left untouched when the move is rejected.
func (that *Board) SetField(index int, mark Mark) error {
	if !IsField(index) {
		return fmt.Errorf("%w: index %d", apperror.ErrInvalidField, index)
	}

	if mark == Empty {
		return fmt.Errorf("%w: cannot place an empty mark", apperror.ErrIllegalMove)
	}

	if that.fields[index] != Empty {
		return fmt.Errorf("%w: index %d holds %s", apperror.ErrFieldOccupied, index, that.fields[index])
	}

	if !slices.Contains(that.PossibleMoves(mark), index) {
		return fmt.Errorf("%w: %s cannot play %d", apperror.ErrIllegalMove, mark, index)
	}

	flips := that.CalculateFlips(index, mark)

	that.fields[index] = mark
	for _, flip := range flips {
		that.fields[flip] = mark
	}

	return nil
}

// CalculateFlips returns the opposing cells captured by mark playing index.
// For each direction the opposing run is kept only when it ends on mark.
func (that *Board) CalculateFlips(index int, mark Mark) []int {
	var result []int

	if !IsField(index) || mark == Empty {
		return result
	}

	for _, dir := range directions {
		var run []int

		pointer, ok := next(index, dir)
		for ok {
			current := that.fields[pointer]
			if current == Empty {
				break
			}

			if current == mark {
				result = append(result, run...)
				break
			}

			run = append(run, pointer)
			pointer, ok = next(pointer, dir)
		}
	}

	slices.Sort(result)

	return result
}

// PossibleMovesFrom returns the empty cells the mark on index can capture towards.
func (that *Board) PossibleMovesFrom(index int) []int {
	var result []int

	if !IsField(index) {
		return result
	}

	mark := that.fields[index]
	if mark == Empty {
		return result
	}

	for _, dir := range directions {
		opposing := 0

		pointer, ok := next(index, dir)
		for ok {
			current := that.fields[pointer]
			if current == Empty {
				if opposing > 0 {
					result = append(result, pointer)
				}
				break
			}

			if current == mark {
				break
			}

			opposing++
			pointer, ok = next(pointer, dir)
		}
	}

	slices.Sort(result)

	return slices.Compact(result)
}

// PossibleMoves returns every legal move of mark, sorted ascending.
func (that *Board) PossibleMoves(mark Mark) []int {
	var result []int

	if mark == Empty {
		return result
	}

	for index, field := range that.fields {
		if field == mark {
			result = append(result, that.PossibleMovesFrom(index)...)
		}
	}

	slices.Sort(result)

	return slices.Compact(result)
}

func (that *Board) HasMoves(mark Mark) bool {
	return len(that.PossibleMoves(mark)) > 0
}

func (that *Board) IsFull() bool {
	return !slices.Contains(that.fields[:], Empty)
}

// HasStaled reports that neither color can move.
func (that *Board) HasStaled() bool {
	return !that.HasMoves(Black) && !that.HasMoves(White)
}

func (that *Board) GameOver() bool {
	return that.IsFull() || that.HasStaled()
}

// IsWinner reports a strict majority of cells for mark on a finished board.
func (that *Board) IsWinner(mark Mark) bool {
	if mark == Empty || !that.GameOver() {
		return false
	}

	return that.Score(mark) > that.Score(mark.Other())
}

func (that *Board) HasWinner() bool {
	return that.IsWinner(Black) || that.IsWinner(White)
}

// Winner returns the winning mark, false when there is none (yet).
func (that *Board) Winner() (Mark, bool) {
	switch {
	case that.IsWinner(Black):
		return Black, true
	case that.IsWinner(White):
		return White, true
	default:
		return Empty, false
	}
}

func (that *Board) IsDraw() bool {
	return that.GameOver() && !that.HasWinner()
}

// Score is the number of cells holding mark.
func (that *Board) Score(mark Mark) int {
	count := 0
	for _, field := range that.fields {
		if field == mark {
			count++
		}
	}

	return count
}

func (that *Board) EmptyCount() int {
	return that.Score(Empty)
}
