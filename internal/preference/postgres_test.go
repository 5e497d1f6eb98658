// internal/preference/postgres_test.go
package preference

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-recommender/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newMockStore(t)
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT preferred_categories, preferred_tags, item_ratings, updated_at FROM user_preferences WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"preferred_categories", "preferred_tags", "item_ratings", "updated_at"}).
			AddRow("{한식,양식}", "{매운}", []byte(`{"food-1":{"name":"김치찌개","rating":5}}`), updated))

	prefs, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, prefs)
	assert.Equal(t, "user-1", prefs.UserID)
	assert.Equal(t, []string{"한식", "양식"}, prefs.PreferredCategories)
	assert.Equal(t, models.ItemRating{Name: "김치찌개", Rating: 5}, prefs.ItemRatings["food-1"])
	assert.Equal(t, updated, prefs.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT .+ FROM user_preferences`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"preferred_categories", "preferred_tags", "item_ratings", "updated_at"}))

	prefs, err := store.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, prefs)
}

func TestPostgresStore_Put(t *testing.T) {
	store, mock := newMockStore(t)
	fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	mock.ExpectExec(`INSERT INTO user_preferences .+ ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("user-1", sqlmock.AnyArg(), sqlmock.AnyArg(), []byte(`{}`), fixed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	prefs := &models.UserPreferences{UserID: "user-1"}
	require.NoError(t, store.Put(context.Background(), prefs))
	assert.Equal(t, fixed, prefs.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PutAndDeleteErrors(t *testing.T) {
	store, mock := newMockStore(t)

	assert.ErrorIs(t, store.Put(context.Background(), nil), ErrInvalidProfile)

	mock.ExpectExec(`DELETE FROM user_preferences WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnError(errors.New("deadlock"))

	err := store.Delete(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadlock")
}
