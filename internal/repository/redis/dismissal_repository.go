package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DismissalRepository keeps the set of insight ids a user has hidden
// during the current session. Keys carry the session TTL so dismissals
// never outlive the session that made them.
type DismissalRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDismissalRepository(client *redis.Client, ttl time.Duration) *DismissalRepository {
	return &DismissalRepository{
		client: client,
		ttl:    ttl,
	}
}

// key format: "advisor:dismissed:{user_id}:{session_id}"
func (r *DismissalRepository) key(userID uint64, sessionID string) string {
	return fmt.Sprintf("advisor:dismissed:%d:%s", userID, sessionID)
}

// Dismiss adds the insight id to the session set. Adding an id twice
// is a no-op.
func (r *DismissalRepository) Dismiss(ctx context.Context, userID uint64, sessionID, insightID string) error {
	key := r.key(userID, sessionID)

	if err := r.client.SAdd(ctx, key, insightID).Err(); err != nil {
		return fmt.Errorf("failed to store dismissal: %w", err)
	}

	if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set dismissal TTL: %w", err)
	}

	return nil
}

// Dismissed returns the session's hidden insight ids as a set.
func (r *DismissalRepository) Dismissed(ctx context.Context, userID uint64, sessionID string) (map[string]struct{}, error) {
	ids, err := r.client.SMembers(ctx, r.key(userID, sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("failed to load dismissals: %w", err)
	}

	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}

	return out, nil
}

// ClearSession drops every dismissal for the session. Used on sign-out.
func (r *DismissalRepository) ClearSession(ctx context.Context, userID uint64, sessionID string) error {
	if err := r.client.Del(ctx, r.key(userID, sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear dismissals: %w", err)
	}

	return nil
}
