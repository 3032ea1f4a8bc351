package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/table"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "drama:sheet:"

// Store implements ports.SheetStore using Redis, for the engine's hot-reload tooling.
// Each sheet is a list of JSON-encoded rows plus a hash holding header and offset.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for sheets.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sheets.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) rowsKey(sheet string) string {
	return s.prefix + sheet + ":rows"
}

func (s *Store) metaKey(sheet string) string {
	return s.prefix + sheet + ":meta"
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Write replaces the sheet in a single transaction.
func (s *Store) Write(ctx context.Context, sheet string, t *table.Table) error {
	header, err := json.Marshal(t.Header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	rows := make([]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal row: %w", err)
		}
		rows = append(rows, data)
	}

	pipe := s.client.TxPipeline()

	// 1. Replace rows and metadata
	pipe.Del(ctx, s.rowsKey(sheet))
	if len(rows) > 0 {
		pipe.RPush(ctx, s.rowsKey(sheet), rows...)
	}
	pipe.HSet(ctx, s.metaKey(sheet), "header", header, "offset", t.Offset)

	// 2. Expiration (0 keeps the sheet forever)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.rowsKey(sheet), s.ttl)
		pipe.Expire(ctx, s.metaKey(sheet), s.ttl)
	} else {
		pipe.Persist(ctx, s.rowsKey(sheet))
		pipe.Persist(ctx, s.metaKey(sheet))
	}

	// 3. Add to Index (ZSET). Score = expiry; far future without TTL.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: sheet})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write sheet to redis: %w", err)
	}
	return nil
}

// Read retrieves a sheet.
func (s *Store) Read(ctx context.Context, sheet string) (*table.Table, error) {
	meta, err := s.client.HGetAll(ctx, s.metaKey(sheet)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet metadata: %w", err)
	}
	if len(meta) == 0 {
		return nil, domain.ErrSheetNotFound
	}

	t := &table.Table{}
	if err := json.Unmarshal([]byte(meta["header"]), &t.Header); err != nil {
		return nil, fmt.Errorf("failed to unmarshal header: %w", err)
	}
	if t.Offset, err = strconv.Atoi(meta["offset"]); err != nil {
		return nil, fmt.Errorf("invalid offset %q: %w", meta["offset"], err)
	}

	vals, err := s.client.LRange(ctx, s.rowsKey(sheet), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	t.Rows = make([][]string, 0, len(vals))
	for _, v := range vals {
		var row []string
		if err := json.Unmarshal([]byte(v), &row); err != nil {
			return nil, fmt.Errorf("failed to unmarshal row: %w", err)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Delete removes a sheet.
func (s *Store) Delete(ctx context.Context, sheet string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.rowsKey(sheet), s.metaKey(sheet))
	pipe.ZRem(ctx, s.indexKey(), sheet)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns live sheets, pruning expired ones from the index.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired sheets: %w", err)
	}

	// Members sharing a score come back in lexical order.
	sheets, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}
	return sheets, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
