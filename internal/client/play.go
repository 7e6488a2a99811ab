package client

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/othello-backend/internal/othello"
	"github.com/rocketscienceinc/othello-backend/internal/protocol"
	"github.com/rocketscienceinc/othello-backend/internal/strategy"
)

// Result is the outcome of one game as seen by the client.
type Result struct {
	Black  string
	White  string
	Mark   othello.Mark
	Reason string
	// Winner is empty for a draw.
	Winner     string
	BlackScore int
	WhiteScore int
	Moves      int
}

func (that Result) Won() bool {
	switch that.Mark {
	case othello.Black:
		return that.Winner == that.Black
	case othello.White:
		return that.Winner == that.White
	default:
		return false
	}
}

// Play waits for the next game, plays it with strat and returns its result.
// The client must be logged in and queued.
func (that *Client) Play(ctx context.Context, strat strategy.Strategy) (Result, error) {
	log := that.logger.With("method", "Play", "strategy", strat.Name())

	stop := context.AfterFunc(ctx, func() {
		_ = that.conn.Close()
	})
	defer stop()

	result, err := that.play(strat)
	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("game interrupted: %w", ctx.Err())
		}

		return result, err
	}

	log.Info("game over", "reason", result.Reason, "winner", result.Winner,
		"black_score", result.BlackScore, "white_score", result.WhiteScore)

	return result, nil
}

func (that *Client) play(strat strategy.Strategy) (Result, error) {
	start, err := that.awaitGame()
	if err != nil {
		return Result{}, err
	}

	result := Result{Black: start.Arg(0), White: start.Arg(1), Mark: othello.White}
	if result.Black == that.username {
		result.Mark = othello.Black
	}

	game := othello.NewGameWithConfiguration(
		othello.NewPlayer(result.Black, othello.Black),
		othello.NewPlayer(result.White, othello.White),
		that.configuration,
	)

	that.logger.Info("game started", "black", result.Black, "white", result.White, "mark", result.Mark.String())

	sent := false

	for {
		if !sent && game.Current().Mark == result.Mark {
			if err = that.send(protocol.MoveMessage(chooseMove(game, strat))); err != nil {
				return result, err
			}

			sent = true
		}

		msg, err := that.receive()
		if err != nil {
			return result, err
		}

		switch msg.Command {
		case protocol.Move:
			index, err := protocol.ParseMove(msg.Arg(0))
			if err != nil {
				return result, err
			}

			if err = game.MakeMove(index); err != nil {
				return result, fmt.Errorf("game out of sync: %w", err)
			}

			result.Moves++
			sent = false
		case protocol.GameOver:
			result.Reason = msg.Arg(0)
			result.Winner = msg.Arg(1)
			result.BlackScore = game.Board().Score(othello.Black)
			result.WhiteScore = game.Board().Score(othello.White)

			return result, nil
		default:
			that.logger.Warn("ignoring message during game", "message", msg.String())
		}
	}
}

// awaitGame skips everything until the NEWGAME message.
func (that *Client) awaitGame() (protocol.Message, error) {
	for {
		msg, err := that.receive()
		if err != nil {
			return msg, err
		}

		if msg.Command == protocol.NewGame && msg.Arity() == 3 {
			return msg, nil
		}

		that.logger.Warn("ignoring message before game", "message", msg.String())
	}
}

func chooseMove(game *othello.Game, strat strategy.Strategy) int {
	move := strat.DetermineMove(game.Board(), game.Current().Mark)
	if move == strategy.NoMove {
		return othello.PassMove
	}

	return move
}
