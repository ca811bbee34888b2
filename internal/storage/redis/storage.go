package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxUpdateRetries <= 0 {
		cfg.MaxUpdateRetries = DefaultConfig().MaxUpdateRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the connection, for health checks
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.ID), data, s.cfg.PlayerTTL).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Match operations

func (s *Storage) CreateMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	created, err := s.client.SetNX(ctx, matchKey(match.Code), data, s.cfg.MatchTTL).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrMatchExists
	}
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, code model.JoinCode) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}
	return decodeMatch(data)
}

// UpdateMatch runs fn inside a WATCH/MULTI transaction on the match key.
// If another writer touches the key first the whole read-modify-write is
// retried, up to MaxUpdateRetries times.
func (s *Storage) UpdateMatch(ctx context.Context, code model.JoinCode, fn storage.UpdateFunc) (*model.Match, error) {
	key := matchKey(code)
	var result *model.Match

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrMatchNotFound
			}
			return err
		}

		match, err := decodeMatch(data)
		if err != nil {
			return err
		}
		if err := fn(match); err != nil {
			return err
		}

		out, err := json.Marshal(match)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.cfg.MatchTTL)
			pipe.Expire(ctx, messagesKey(code), s.cfg.MatchTTL)
			return nil
		})
		if err != nil {
			return err
		}
		result = match
		return nil
	}

	for attempt := 0; attempt < s.cfg.MaxUpdateRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, model.ErrStorageConflict
}

func (s *Storage) DeleteMatch(ctx context.Context, code model.JoinCode) error {
	return s.client.Del(ctx, matchKey(code), messagesKey(code)).Err()
}

func (s *Storage) ListMatchCodes(ctx context.Context) ([]model.JoinCode, error) {
	var codes []model.JoinCode
	iter := s.client.Scan(ctx, 0, matchKeyPattern(), 100).Iterator()
	for iter.Next(ctx) {
		codes = append(codes, codeFromMatchKey(iter.Val()))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes, nil
}

// Chat operations

func (s *Storage) AppendMessage(ctx context.Context, code model.JoinCode, msg *model.ChatMessage) error {
	exists, err := s.client.Exists(ctx, matchKey(code)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrMatchNotFound
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, messagesKey(code), data)
	pipe.Expire(ctx, messagesKey(code), s.cfg.MatchTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMessages(ctx context.Context, code model.JoinCode) ([]*model.ChatMessage, error) {
	items, err := s.client.LRange(ctx, messagesKey(code), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	msgs := make([]*model.ChatMessage, 0, len(items))
	for _, item := range items {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, err
		}
		msgs = append(msgs, &msg)
	}
	return msgs, nil
}

func decodeMatch(data []byte) (*model.Match, error) {
	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	if match.Players == nil {
		match.Players = make(map[model.PlayerID]*model.Member)
	}
	return &match, nil
}
