// Package redis implements the member record store on Redis hashes.
// One hash per member at "member:<id>" with integer fields xp, level and
// messages. Field increments map to HINCRBY, which is atomic on the Redis
// side, so concurrent workers never lose updates.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// URL is the Redis connection URL, e.g. "redis://localhost:6379/0".
	URL string

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379/0",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MEMBER STORE
// ══════════════════════════════════════════════════════════════════════════════

// Key layout for member records.
const (
	keyPrefix = "member:"

	fieldXP       = "xp"
	fieldLevel    = "level"
	fieldMessages = "messages"
)

// scanBatchSize is the COUNT hint for SCAN during enumeration.
const scanBatchSize = 100

// MemberStore implements member.Repository on Redis.
type MemberStore struct {
	client *redis.Client
}

// NewMemberStore creates a new MemberStore.
func NewMemberStore(client *redis.Client) *MemberStore {
	return &MemberStore{client: client}
}

func memberKey(id member.MemberID) string {
	return keyPrefix + strconv.FormatInt(int64(id), 10)
}

// Get returns the member's record. A missing key or a malformed field
// reads as the documented defaults (xp=0, level=1, messages=0) rather
// than failing the operation.
func (s *MemberStore) Get(ctx context.Context, id member.MemberID) (member.Record, error) {
	fields, err := s.client.HGetAll(ctx, memberKey(id)).Result()
	if err != nil {
		return member.Record{}, shared.WrapError("member", "Get", shared.ErrServiceUnavailable, "redis hgetall failed", err)
	}
	return recordFromFields(id, fields), nil
}

// All enumerates every member record using SCAN over the key prefix.
// Enumeration order is unspecified.
func (s *MemberStore) All(ctx context.Context) ([]member.Record, error) {
	records := make([]member.Record, 0)

	iter := s.client.Scan(ctx, 0, keyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id, err := strconv.ParseInt(key[len(keyPrefix):], 10, 64)
		if err != nil {
			// Foreign key under our prefix; skip rather than abort the scan.
			continue
		}

		fields, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, shared.WrapError("member", "All", shared.ErrServiceUnavailable, "redis hgetall failed", err)
		}
		records = append(records, recordFromFields(member.MemberID(id), fields))
	}
	if err := iter.Err(); err != nil {
		return nil, shared.WrapError("member", "All", shared.ErrServiceUnavailable, "redis scan failed", err)
	}

	return records, nil
}

// IncrementXP atomically adds delta to the xp field.
func (s *MemberStore) IncrementXP(ctx context.Context, id member.MemberID, delta member.XP) (member.XP, error) {
	val, err := s.client.HIncrBy(ctx, memberKey(id), fieldXP, int64(delta)).Result()
	if err != nil {
		return 0, shared.WrapError("member", "IncrementXP", shared.ErrServiceUnavailable, "redis hincrby failed", err)
	}
	return member.XP(val), nil
}

// IncrementMessages atomically adds delta to the messages field.
func (s *MemberStore) IncrementMessages(ctx context.Context, id member.MemberID, delta int) (int, error) {
	val, err := s.client.HIncrBy(ctx, memberKey(id), fieldMessages, int64(delta)).Result()
	if err != nil {
		return 0, shared.WrapError("member", "IncrementMessages", shared.ErrServiceUnavailable, "redis hincrby failed", err)
	}
	return int(val), nil
}

// SetLevel sets the level field.
func (s *MemberStore) SetLevel(ctx context.Context, id member.MemberID, level member.Level) error {
	if err := s.client.HSet(ctx, memberKey(id), fieldLevel, int(level)).Err(); err != nil {
		return shared.WrapError("member", "SetLevel", shared.ErrServiceUnavailable, "redis hset failed", err)
	}
	return nil
}

// InitIfAbsent seeds default fields for a new member. Existing fields are
// never overwritten (HSETNX per field), so calling /start twice is safe.
func (s *MemberStore) InitIfAbsent(ctx context.Context, id member.MemberID) (bool, error) {
	key := memberKey(id)

	created, err := s.client.HSetNX(ctx, key, fieldLevel, int(member.DefaultLevel)).Result()
	if err != nil {
		return false, shared.WrapError("member", "InitIfAbsent", shared.ErrServiceUnavailable, "redis hsetnx failed", err)
	}
	if err := s.client.HSetNX(ctx, key, fieldXP, int(member.DefaultXP)).Err(); err != nil {
		return false, shared.WrapError("member", "InitIfAbsent", shared.ErrServiceUnavailable, "redis hsetnx failed", err)
	}
	if err := s.client.HSetNX(ctx, key, fieldMessages, member.DefaultMessages).Err(); err != nil {
		return false, shared.WrapError("member", "InitIfAbsent", shared.ErrServiceUnavailable, "redis hsetnx failed", err)
	}

	return created, nil
}

// Reset sets all counters back to defaults regardless of prior state.
func (s *MemberStore) Reset(ctx context.Context, id member.MemberID) error {
	err := s.client.HSet(ctx, memberKey(id),
		fieldXP, int(member.DefaultXP),
		fieldLevel, int(member.DefaultLevel),
		fieldMessages, member.DefaultMessages,
	).Err()
	if err != nil {
		return shared.WrapError("member", "Reset", shared.ErrServiceUnavailable, "redis hset failed", err)
	}
	return nil
}

// Delete removes the member's key entirely.
func (s *MemberStore) Delete(ctx context.Context, id member.MemberID) error {
	if err := s.client.Del(ctx, memberKey(id)).Err(); err != nil {
		return shared.WrapError("member", "Delete", shared.ErrServiceUnavailable, "redis del failed", err)
	}
	return nil
}

// recordFromFields parses a hash into a Record, defaulting absent or
// malformed fields.
func recordFromFields(id member.MemberID, fields map[string]string) member.Record {
	rec := member.NewRecord(id)
	if v, err := strconv.Atoi(fields[fieldXP]); err == nil {
		rec.XP = member.XP(v)
	}
	if v, err := strconv.Atoi(fields[fieldLevel]); err == nil {
		rec.Level = member.Level(v)
	}
	if v, err := strconv.Atoi(fields[fieldMessages]); err == nil {
		rec.Messages = v
	}
	return rec
}
