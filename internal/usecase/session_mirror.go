package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/othello-backend/internal/entity"
	"github.com/rocketscienceinc/othello-backend/internal/repository"
)

const DefaultMirrorBuffer = 256

var ErrUnknownEvent = errors.New("unknown mirror event")

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByName(ctx context.Context, name string) (*entity.Player, error)
	DeleteByName(ctx context.Context, name string) error
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	DeleteByID(ctx context.Context, id string) error
}

type EventKind int

const (
	PlayerLoggedIn EventKind = iota
	PlayerLeft
	GameStarted
	GameUpdated
	GameFinished
)

func (that EventKind) String() string {
	switch that {
	case PlayerLoggedIn:
		return "player_logged_in"
	case PlayerLeft:
		return "player_left"
	case GameStarted:
		return "game_started"
	case GameUpdated:
		return "game_updated"
	case GameFinished:
		return "game_finished"
	default:
		return fmt.Sprintf("event(%d)", int(that))
	}
}

// Event is a change of the live sessions. Player is set for player events,
// Game for game events.
type Event struct {
	Kind   EventKind
	Player string
	Game   entity.Game
}

// SessionMirror copies the live sessions of the game server into the
// repositories. Events are queued without blocking and applied by Run.
type SessionMirror struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo

	events chan Event
}

func NewSessionMirror(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, buffer int) *SessionMirror {
	if buffer <= 0 {
		buffer = DefaultMirrorBuffer
	}

	return &SessionMirror{
		logger: logger.With("component", "session_mirror"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,

		events: make(chan Event, buffer),
	}
}

func (that *SessionMirror) PlayerLoggedIn(name string) {
	that.enqueue(Event{Kind: PlayerLoggedIn, Player: name})
}

func (that *SessionMirror) PlayerLeft(name string) {
	that.enqueue(Event{Kind: PlayerLeft, Player: name})
}

func (that *SessionMirror) GameStarted(game entity.Game) {
	that.enqueue(Event{Kind: GameStarted, Game: game})
}

func (that *SessionMirror) GameUpdated(game entity.Game) {
	that.enqueue(Event{Kind: GameUpdated, Game: game})
}

func (that *SessionMirror) GameFinished(game entity.Game) {
	that.enqueue(Event{Kind: GameFinished, Game: game})
}

// enqueue never blocks; the event is dropped when the buffer is full.
func (that *SessionMirror) enqueue(event Event) {
	select {
	case that.events <- event:
	default:
		that.logger.Warn("mirror buffer is full, event dropped", "event", event.Kind.String())
	}
}

// Run applies queued events until ctx is cancelled.
func (that *SessionMirror) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	log.Info("session mirror started")

	for {
		select {
		case <-ctx.Done():
			log.Info("session mirror stopped")
			return nil
		case event := <-that.events:
			if err := that.Apply(ctx, event); err != nil {
				log.Error("failed to apply event", "event", event.Kind.String(), "error", err)
			}
		}
	}
}

// Apply writes a single event to the repositories.
func (that *SessionMirror) Apply(ctx context.Context, event Event) error {
	switch event.Kind {
	case PlayerLoggedIn:
		if err := that.playerRepo.CreateOrUpdate(ctx, &entity.Player{Name: event.Player}); err != nil {
			return fmt.Errorf("failed to save player: %w", err)
		}
	case PlayerLeft:
		if err := that.playerRepo.DeleteByName(ctx, event.Player); err != nil && !errors.Is(err, repository.ErrPlayerNotFound) {
			return fmt.Errorf("failed to delete player: %w", err)
		}
	case GameStarted:
		return that.startGame(ctx, &event.Game)
	case GameUpdated:
		if err := that.gameRepo.CreateOrUpdate(ctx, &event.Game); err != nil {
			return fmt.Errorf("failed to update game: %w", err)
		}
	case GameFinished:
		return that.finishGame(ctx, &event.Game)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event.Kind)
	}

	return nil
}

func (that *SessionMirror) startGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	for _, player := range []*entity.Player{
		{Name: game.Black, Mark: entity.MarkBlack, GameID: game.ID},
		{Name: game.White, Mark: entity.MarkWhite, GameID: game.ID},
	} {
		if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return fmt.Errorf("failed to bind player %s: %w", player.Name, err)
		}
	}

	return nil
}

func (that *SessionMirror) finishGame(ctx context.Context, game *entity.Game) error {
	log := that.logger.With("method", "finishGame", "game_id", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	for _, name := range []string{game.Black, game.White} {
		player, err := that.playerRepo.GetByName(ctx, name)
		if errors.Is(err, repository.ErrPlayerNotFound) {
			continue
		}

		if err != nil {
			return fmt.Errorf("failed to get player %s: %w", name, err)
		}

		if player.GameID != game.ID {
			continue
		}

		player.Leave()

		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return fmt.Errorf("failed to release player %s: %w", name, err)
		}
	}

	log.Info("game removed from mirror", "winner", game.Winner)

	return nil
}
