package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SampleStore guarda los ids de preguntas emitidos para cada token de test.
// Take lee y borra en un solo paso: de dos llamadas concurrentes con el mismo
// token solo una obtiene el sample.
type SampleStore interface {
	Save(ctx context.Context, token string, questionIDs []int, ttl time.Duration) error
	Load(ctx context.Context, token string) ([]int, bool, error)
	Take(ctx context.Context, token string) ([]int, bool, error)
}

type memorySample struct {
	ids       []int
	expiresAt time.Time
}

type memorySampleStore struct {
	mu    sync.Mutex
	items map[string]memorySample
	now   func() time.Time
}

func NewMemorySampleStore() SampleStore {
	return &memorySampleStore{
		items: make(map[string]memorySample),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *memorySampleStore) Save(_ context.Context, token string, questionIDs []int, ttl time.Duration) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("empty sample token")
	}
	ids := make([]int, len(questionIDs))
	copy(ids, questionIDs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[token] = memorySample{ids: ids, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *memorySampleStore) Load(_ context.Context, token string) ([]int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(token)
}

func (s *memorySampleStore) Take(_ context.Context, token string) ([]int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok, err := s.lookupLocked(token)
	delete(s.items, token)
	return ids, ok, err
}

func (s *memorySampleStore) lookupLocked(token string) ([]int, bool, error) {
	item, ok := s.items[token]
	if !ok {
		return nil, false, nil
	}
	if s.now().After(item.expiresAt) {
		delete(s.items, token)
		return nil, false, nil
	}
	ids := make([]int, len(item.ids))
	copy(ids, item.ids)
	return ids, true, nil
}

type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

type redisSampleStore struct {
	client  redisKV
	prefix  string
	timeout time.Duration
}

func NewRedisSampleStore(client *redis.Client) SampleStore {
	if client == nil {
		return nil
	}
	return &redisSampleStore{
		client:  client,
		prefix:  "test:sample:",
		timeout: 500 * time.Millisecond,
	}
}

func (s *redisSampleStore) Save(ctx context.Context, token string, questionIDs []int, ttl time.Duration) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("empty sample token")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+token, encodeIDs(questionIDs), ttl).Err()
}

func (s *redisSampleStore) Load(ctx context.Context, token string) ([]int, bool, error) {
	if strings.TrimSpace(token) == "" {
		return nil, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return parseSample(s.client.Get(ctx, s.prefix+token))
}

// Take usa GETDEL para que el consumo sea atomico en Redis.
func (s *redisSampleStore) Take(ctx context.Context, token string) ([]int, bool, error) {
	if strings.TrimSpace(token) == "" {
		return nil, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return parseSample(s.client.GetDel(ctx, s.prefix+token))
}

func parseSample(cmd *redis.StringCmd) ([]int, bool, error) {
	raw, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	ids, err := decodeIDs(raw)
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

func encodeIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func decodeIDs(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, len(parts))
	for i, p := range parts {
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("decode sample ids: %w", err)
		}
		ids[i] = id
	}
	return ids, nil
}
