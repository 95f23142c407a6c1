package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RefreshStore persists refresh sessions. Implementations must make Rotate atomic.
type RefreshStore interface {
	Create(ctx context.Context, sessionID string, userID uuid.UUID, secretHash string, ttl time.Duration) error
	// Rotate swaps oldHash for newHash and returns the session owner.
	// The replaced hash stays acceptable until now+grace; presenting it in that
	// window yields a Rotation with Rotated unset and leaves the session as is.
	// It returns ErrInvalidCredentials when the session is unknown or oldHash is
	// stale; a stale hash also revokes the session.
	Rotate(ctx context.Context, req RotateRequest) (Rotation, error)
	Delete(ctx context.Context, sessionID string) error
}

// RotateRequest carries the arguments of RefreshStore.Rotate.
type RotateRequest struct {
	SessionID string
	OldHash   string
	NewHash   string
	Now       time.Time
	TTL       time.Duration
	Grace     time.Duration
}

// Rotation is the outcome of an accepted Rotate.
type Rotation struct {
	UserID  uuid.UUID
	// Rotated is false when OldHash matched the previous secret inside its grace
	// window. NewHash was not stored in that case.
	Rotated bool
}

const (
	rotateNotFound = 0
	rotateMismatch = 1
	rotateOK       = 2
	rotateGrace    = 3
)

// KEYS[1] session key; ARGV: old hash, new hash, ttl ms, now ms, grace deadline ms.
const rotateRefreshScript = `
local stored = redis.call("HGET", KEYS[1], "hash")
if not stored then
  return {0}
end
local now = tonumber(ARGV[4])
if stored == ARGV[1] then
  redis.call("HSET", KEYS[1], "hash", ARGV[2], "prev_hash", ARGV[1], "prev_until", ARGV[5])
  redis.call("PEXPIRE", KEYS[1], ARGV[3])
  return {2, redis.call("HGET", KEYS[1], "user_id")}
end
local prev = redis.call("HGET", KEYS[1], "prev_hash")
local deadline = tonumber(redis.call("HGET", KEYS[1], "prev_until") or "0")
if prev == ARGV[1] and now < deadline then
  return {3, redis.call("HGET", KEYS[1], "user_id")}
end
redis.call("DEL", KEYS[1])
return {1}
`

var rotateRefreshLua = redis.NewScript(rotateRefreshScript)

// RedisRefreshStore keeps one hash per refresh session under <prefix>:refresh:<sid>.
type RedisRefreshStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRefreshStore creates a store using client. An empty prefix defaults to "notegate".
func NewRedisRefreshStore(client redis.UniversalClient, prefix string) *RedisRefreshStore {
	if prefix == "" {
		prefix = "notegate"
	}
	return &RedisRefreshStore{client: client, prefix: prefix}
}

func (s *RedisRefreshStore) key(sessionID string) string {
	return s.prefix + ":refresh:" + sessionID
}

// Create stores a new refresh session.
func (s *RedisRefreshStore) Create(ctx context.Context, sessionID string, userID uuid.UUID, secretHash string, ttl time.Duration) error {
	key := s.key(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "user_id", userID.String(), "hash", secretHash)
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: create refresh session: %w", ErrProviderUnavailable, err)
	}
	return nil
}

// Rotate atomically replaces the stored secret hash and remembers the replaced
// one until req.Now+req.Grace.
func (s *RedisRefreshStore) Rotate(ctx context.Context, req RotateRequest) (Rotation, error) {
	res, err := rotateRefreshLua.Run(ctx, s.client, []string{s.key(req.SessionID)},
		req.OldHash, req.NewHash, req.TTL.Milliseconds(), req.Now.UnixMilli(), req.Now.Add(req.Grace).UnixMilli(),
	).Slice()
	if err != nil {
		return Rotation{}, fmt.Errorf("%w: rotate refresh session: %w", ErrProviderUnavailable, err)
	}
	if len(res) == 0 {
		return Rotation{}, fmt.Errorf("%w: empty rotate result", ErrProviderUnavailable)
	}

	code, _ := res[0].(int64)
	switch code {
	case rotateNotFound:
		return Rotation{}, fmt.Errorf("%w: refresh session not found", ErrInvalidCredentials)
	case rotateMismatch:
		return Rotation{}, fmt.Errorf("%w: refresh token reuse detected", ErrInvalidCredentials)
	case rotateOK, rotateGrace:
		if len(res) < 2 {
			return Rotation{}, fmt.Errorf("%w: refresh session has no owner", ErrInvalidCredentials)
		}
		raw, _ := res[1].(string)
		userID, err := uuid.Parse(raw)
		if err != nil {
			return Rotation{}, errors.Join(ErrInvalidCredentials, err)
		}
		return Rotation{UserID: userID, Rotated: code == rotateOK}, nil
	default:
		return Rotation{}, fmt.Errorf("%w: unexpected rotate result %v", ErrProviderUnavailable, res[0])
	}
}

// Delete removes a refresh session. Missing sessions are not an error.
func (s *RedisRefreshStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: delete refresh session: %w", ErrProviderUnavailable, err)
	}
	return nil
}
