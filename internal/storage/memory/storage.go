package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Matches are cloned on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	players  map[model.PlayerID]*model.Player
	matches  map[model.JoinCode]*model.Match
	messages map[model.JoinCode][]*model.ChatMessage
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:  make(map[model.PlayerID]*model.Player),
		matches:  make(map[model.JoinCode]*model.Match),
		messages: make(map[model.JoinCode][]*model.ChatMessage),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[match.Code]; ok {
		return model.ErrMatchExists
	}
	s.matches[match.Code] = match.Clone()
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, code model.JoinCode) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[code]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return match.Clone(), nil
}

func (s *Storage) UpdateMatch(ctx context.Context, code model.JoinCode, fn storage.UpdateFunc) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.matches[code]
	if !ok {
		return nil, model.ErrMatchNotFound
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	s.matches[code] = working.Clone()
	return working, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, code model.JoinCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, code)
	delete(s.messages, code)
	return nil
}

func (s *Storage) ListMatchCodes(ctx context.Context) ([]model.JoinCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]model.JoinCode, 0, len(s.matches))
	for code := range s.matches {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes, nil
}

// Chat operations

func (s *Storage) AppendMessage(ctx context.Context, code model.JoinCode, msg *model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[code]; !ok {
		return model.ErrMatchNotFound
	}
	m := *msg
	s.messages[code] = append(s.messages[code], &m)
	return nil
}

func (s *Storage) GetMessages(ctx context.Context, code model.JoinCode) ([]*model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.messages[code]
	result := make([]*model.ChatMessage, len(stored))
	for i, msg := range stored {
		m := *msg
		result[i] = &m
	}
	return result, nil
}
