package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/romancitodev/tic-tac-toe-go/internal/ai"
	"github.com/romancitodev/tic-tac-toe-go/internal/domain"
)

// ErrNotFound is returned when a game id is unknown.
var ErrNotFound = errors.New("game not found")

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID      string
	Game    domain.Game
	Created time.Time
	Updated time.Time
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games, consults the engine for the computer's replies, and
// fans out board updates to subscribers.
type Service struct {
	mu     sync.Mutex
	games  map[string]*GameState
	subs   map[string]map[*subscriber]struct{}
	render func(GameState) []byte
	engine ai.Engine
	first  domain.Cell
}

// NewService creates a service with a default renderer (encodes nothing
// useful) and the computer designated as first mover.
func NewService() *Service { return NewServiceWithRenderer(func(gs GameState) []byte { return nil }) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
	if renderer == nil {
		renderer = func(gs GameState) []byte { return nil }
	}
	return &Service{
		games:  make(map[string]*GameState),
		subs:   make(map[string]map[*subscriber]struct{}),
		render: renderer,
		engine: ai.New(domain.Computer),
		first:  domain.Computer,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(gs GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// SetFirstMover picks which side opens new rounds. Existing games keep the
// first mover they started with.
func (s *Service) SetFirstMover(first domain.Cell) {
	if first == domain.Empty {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.first = first
}

// CreateGame creates and registers a new game in Ready phase.
func (s *Service) CreateGame() (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	now := time.Now()
	gs := &GameState{ID: id, Game: domain.New(), Created: now, Updated: now}
	s.games[id] = gs
	log.Debug().Str("game", id).Msg("game created")
	cp := *gs
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := *gs
	return &cp, true
}

// Start moves a Ready game into play. When the computer is the first mover
// its opening move is applied before returning.
func (s *Service) Start(id string) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	s.startLocked(gs)
	return s.publishLocked(id, gs), nil
}

// Play applies the human's move at (r, c) and, while the game is still going,
// the engine's reply. A Ready game is started first, mirroring a round that
// begins on the first click.
//
// The domain silently ignores moves in non-playable phases and flags occupied
// targets via the Retry phase, so Play returns the resulting snapshot rather
// than an error for those conditions.
func (s *Service) Play(id string, r, c int) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if gs.Game.Phase().Kind == domain.Ready {
		s.startLocked(gs)
	}
	if ph := gs.Game.Phase(); ph.Playable() && ph.Player == domain.Human {
		gs.Game.Play(r, c)
		log.Debug().Str("game", id).Int("row", r).Int("col", c).Msg("human move")
		s.replyLocked(gs)
	}
	gs.Updated = time.Now()
	return s.publishLocked(id, gs), nil
}

// Reset discards the game behind id and registers a fresh Ready one in its
// place.
func (s *Service) Reset(id string) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	gs.Game = gs.Game.Reset()
	gs.Updated = time.Now()
	log.Debug().Str("game", id).Msg("game reset")
	return s.publishLocked(id, gs), nil
}

// startLocked begins a round and lets the engine open when it is first.
func (s *Service) startLocked(gs *GameState) {
	gs.Game.Start(s.first)
	gs.Updated = time.Now()
	s.replyLocked(gs)
}

// replyLocked asks the engine for the computer's move while it is the
// computer's turn.
func (s *Service) replyLocked(gs *GameState) {
	ph := gs.Game.Phase()
	if ph.Kind != domain.Playing || ph.Player != domain.Computer {
		return
	}
	board := gs.Game.Board()
	r, c := s.engine.BestMove(board)
	gs.Game.Play(r, c)
	log.Debug().Str("game", gs.ID).Int("row", r).Int("col", c).Msg("engine move")
}

// publishLocked snapshots the state, releases the lock, and fans the rendered
// payload out to subscribers. Slow subscribers are closed and dropped so they
// cannot block the rest.
func (s *Service) publishLocked(id string, gs *GameState) *GameState {
	cp := *gs
	subs := s.copySubsLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	var toDrop []*subscriber
	for sub := range subs {
		select {
		case sub.ch <- payload:
		default:
			// drop slow subscriber
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) > 0 {
		s.mu.Lock()
		for _, sub := range toDrop {
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
		}
		s.mu.Unlock()
	}
	return &cp
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		// create lazily to allow subscriptions before CreateGame in some flows
		s.games[id] = &GameState{ID: id, Game: domain.New(), Created: time.Now(), Updated: time.Now()}
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
