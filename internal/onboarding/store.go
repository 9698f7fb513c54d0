package onboarding

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DraftTTL keeps abandoned drafts around for a week before Redis drops them.
const DraftTTL = 7 * 24 * time.Hour

// Store keeps wizard drafts in Redis, one JSON blob per user.
type Store struct {
	RDB *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{RDB: rdb}
}

func draftKey(userID uuid.UUID) string {
	return "onboarding:draft:" + userID.String()
}

// Get loads the user's draft, or a fresh one if none exists.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	raw, err := s.RDB.Get(ctx, draftKey(userID)).Bytes()
	if err == redis.Nil {
		return NewDraft(), nil
	}
	if err != nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		// corrupt draft: start over rather than wedging the wizard
		return NewDraft(), nil
	}
	return &d, nil
}

// Save writes the draft back, refreshing the TTL.
func (s *Store) Save(ctx context.Context, userID uuid.UUID, d *Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, draftKey(userID), raw, DraftTTL).Err()
}

// Delete discards the draft after submission or abandonment.
func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.RDB.Del(ctx, draftKey(userID)).Err()
}
