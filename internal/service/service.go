// internal/service/service.go
//
// Application service for Battleship games.
// Responsibilities:
//   - Create: build a new game (fleet placement) and persist it.
//   - Shoot: normalize + parse the coordinate, then load → fire → save as one
//     serialized store update.
//   - State: load a game and project its player-facing read model.
//
// Notes:
//   - Client mistakes come back as sentinel errors (ErrCoordinateRequired,
//     board.ErrInvalidCoordinate, store.ErrNotFound) so the transport can
//     branch on them with errors.Is.
//   - Duplicate and game-over shots are outcomes, not errors.

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/board"
	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/store"
)

// ErrCoordinateRequired is returned when the shot payload is blank.
var ErrCoordinateRequired = errors.New("coordinate is required")

// Service bundles the game store with the game rules.
type Service struct {
	store   store.Store
	newGame func() (*game.Game, error)
}

// New constructs a Service over st using randomly placed fleets.
func New(st store.Store) *Service {
	return &Service{store: st, newGame: game.New}
}

// NewWithFactory is New with a custom game constructor (seeded placement in tests).
func NewWithFactory(st store.Store, newGame func() (*game.Game, error)) *Service {
	return &Service{store: st, newGame: newGame}
}

// Create places a fresh fleet and persists the game.
func (s *Service) Create(ctx context.Context) (*game.Game, error) {
	log.Info().Msg("creating a new game")
	g, err := s.newGame()
	if err != nil {
		log.Error().Err(err).Msg("fleet placement failed")
		return nil, fmt.Errorf("create game: %w", err)
	}
	if err := s.store.Create(ctx, g); err != nil {
		log.Error().Err(err).Str("gameId", g.ID()).Msg("save game")
		return nil, fmt.Errorf("save game: %w", err)
	}
	log.Info().Str("gameId", g.ID()).Msg("game created")
	return g, nil
}

// State returns the read model for the game with the given id.
func (s *Service) State(ctx context.Context, id string) (game.View, error) {
	if !validID(id) {
		return game.View{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	g, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn().Str("gameId", id).Msg("game not found")
		}
		return game.View{}, err
	}
	return g.View(), nil
}

// Shoot fires at raw (e.g. "C6") in game id and returns the classified outcome.
func (s *Service) Shoot(ctx context.Context, id, raw string) (game.Outcome, error) {
	logger := log.With().Str("gameId", id).Str("coordinate", raw).Logger()

	payload := NormalizeCoordinate(raw)
	if payload == "" {
		logger.Warn().Msg("shot request missing coordinate")
		return "", ErrCoordinateRequired
	}
	c, err := board.Parse(payload)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid coordinate in shot request")
		return "", err
	}
	if !validID(id) {
		return "", fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	var out game.Outcome
	err = s.store.Update(ctx, id, func(g *game.Game) error {
		out = g.Fire(c)
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn().Msg("game not found for shot request")
		} else {
			logger.Error().Err(err).Msg("apply shot")
		}
		return "", err
	}

	switch out {
	case game.OutcomeDuplicate:
		logger.Warn().Msg("coordinate already shot")
	case game.OutcomeGameOver:
		logger.Info().Msg("shot attempted on finished game")
	default:
		logger.Info().Str("outcome", string(out)).Msg("shot resolved")
	}
	return out, nil
}

// Recent lists the newest games for the history endpoint.
func (s *Service) Recent(ctx context.Context, limit int) ([]store.Summary, error) {
	return s.store.Recent(ctx, limit)
}

// NormalizeCoordinate trims whitespace and surrounding double quotes, as
// sent by clients that JSON-encode a bare string.
func NormalizeCoordinate(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}

// validID reports whether id is a well-formed game identifier.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
