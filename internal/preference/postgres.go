// internal/preference/postgres.go
package preference

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"food-recommender/internal/models"

	"github.com/lib/pq"
)

// PostgresStore is the durable profile store.
//
//	CREATE TABLE user_preferences (
//	    user_id              TEXT PRIMARY KEY,
//	    preferred_categories TEXT[] NOT NULL DEFAULT '{}',
//	    preferred_tags       TEXT[] NOT NULL DEFAULT '{}',
//	    item_ratings         JSONB  NOT NULL DEFAULT '{}',
//	    updated_at           TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*models.UserPreferences, error) {
	var (
		prefs   = models.UserPreferences{UserID: userID}
		ratings []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT preferred_categories, preferred_tags, item_ratings, updated_at
		FROM user_preferences
		WHERE user_id = $1`, userID).Scan(
		pq.Array(&prefs.PreferredCategories),
		pq.Array(&prefs.PreferredTags),
		&ratings,
		&prefs.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query preferences %s: %w", userID, err)
	}

	if len(ratings) > 0 {
		if err := json.Unmarshal(ratings, &prefs.ItemRatings); err != nil {
			return nil, fmt.Errorf("decode item ratings %s: %w", userID, err)
		}
	}
	return &prefs, nil
}

func (s *PostgresStore) Put(ctx context.Context, prefs *models.UserPreferences) error {
	if err := validate(prefs); err != nil {
		return err
	}

	ratings := prefs.ItemRatings
	if ratings == nil {
		ratings = map[string]models.ItemRating{}
	}
	ratingsJSON, err := json.Marshal(ratings)
	if err != nil {
		return fmt.Errorf("encode item ratings %s: %w", prefs.UserID, err)
	}

	prefs.UpdatedAt = s.now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, preferred_categories, preferred_tags, item_ratings, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			preferred_categories = EXCLUDED.preferred_categories,
			preferred_tags       = EXCLUDED.preferred_tags,
			item_ratings         = EXCLUDED.item_ratings,
			updated_at           = EXCLUDED.updated_at`,
		prefs.UserID,
		pq.Array(nonNil(prefs.PreferredCategories)),
		pq.Array(nonNil(prefs.PreferredTags)),
		ratingsJSON,
		prefs.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert preferences %s: %w", prefs.UserID, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete preferences %s: %w", userID, err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
