package strategy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rocketscienceinc/othello-backend/internal/othello"
)

// NoMove is returned by DetermineMove when the mark has no legal move.
const NoMove = -1

const DefaultDepth = 5

var ErrUnknownKind = errors.New("unknown strategy kind")

// Strategy picks a move for mark on board.
type Strategy interface {
	Name() string
	DetermineMove(board *othello.Board, mark othello.Mark) int
}

// Filter narrows a set of candidate moves and can be stacked in a chain.
type Filter interface {
	Strategy
	DetermineMoveSet(board *othello.Board, mark othello.Mark, candidates []int) []int
}

type Kind string

const (
	KindNaive      Kind = "naive"
	KindLimiting   Kind = "limiting"
	KindFieldValue Kind = "field-value"
	KindStacked    Kind = "stacked"
	KindMiniMax    Kind = "minimax"
)

// Options selects a strategy variant.
// Depth is used by KindMiniMax, Filters by KindStacked.
type Options struct {
	Kind    Kind
	Depth   int
	Filters []Kind
}

// New builds the strategy described by opts. A nil rnd uses the global source.
func New(opts Options, rnd *rand.Rand) (Strategy, error) {
	switch opts.Kind {
	case KindNaive:
		return NewNaive(rnd), nil
	case KindLimiting:
		return NewLimiting(rnd), nil
	case KindFieldValue:
		return NewFieldValue(rnd), nil
	case KindStacked:
		filters, err := newFilters(opts.Filters, rnd)
		if err != nil {
			return nil, err
		}

		return NewStacked(rnd, filters...), nil
	case KindMiniMax:
		depth := opts.Depth
		if depth <= 0 {
			depth = DefaultDepth
		}

		return NewMiniMax(depth), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}
}

// ParseKinds splits a comma separated list such as "field-value,limiting".
func ParseKinds(list string) []Kind {
	var kinds []Kind
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			kinds = append(kinds, Kind(part))
		}
	}

	return kinds
}

func newFilters(kinds []Kind, rnd *rand.Rand) ([]Filter, error) {
	if len(kinds) == 0 {
		return []Filter{NewFieldValue(rnd), NewLimiting(rnd)}, nil
	}

	filters := make([]Filter, 0, len(kinds))
	for _, kind := range kinds {
		switch kind {
		case KindFieldValue:
			filters = append(filters, NewFieldValue(rnd))
		case KindLimiting:
			filters = append(filters, NewLimiting(rnd))
		default:
			return nil, fmt.Errorf("%w: %q cannot be stacked", ErrUnknownKind, kind)
		}
	}

	return filters, nil
}

// randomElement picks a uniformly random move, NoMove for an empty set.
func randomElement(moves []int, rnd *rand.Rand) int {
	if len(moves) == 0 {
		return NoMove
	}

	if rnd == nil {
		return moves[rand.IntN(len(moves))] //nolint: gosec // it's ok
	}

	return moves[rnd.IntN(len(moves))]
}
