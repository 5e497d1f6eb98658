// internal/catalog/postgres_test.go
package catalog

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

var columns = []string{
	"id", "name", "category", "description", "price", "image", "tags", "mood_tags", "rating",
	"is_available", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db, "foods"), mock
}

func TestPostgresStore_ListItems_MainDishes(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(columns).
		AddRow("food-1", "김치찌개", "한식", "spicy stew", int64(9000), nil, "{국물,매운맛}", "{스트레스해소}", 4.5, true, created, created).
		AddRow("food-2", "파스타", "양식", nil, nil, "https://img/pasta.jpg", "{면요리}", nil, 4.0, true, created, created)

	mock.ExpectQuery(`SELECT .+ FROM "foods" WHERE is_available = TRUE AND category <> \$1 ORDER BY created_at, id LIMIT \$2`).
		WithArgs(models.CategoryDessert, sqlmock.AnyArg()).
		WillReturnRows(rows)

	items, err := store.ListItems(context.Background(), models.CatalogFilter{FoodType: models.FoodTypeMain, AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "김치찌개", items[0].Name)
	assert.Equal(t, []string{"국물", "매운맛"}, items[0].Tags)
	assert.Equal(t, []string{"스트레스해소"}, items[0].MoodTags)
	assert.Equal(t, 9000, items[0].Price)
	assert.Empty(t, items[0].Image)

	assert.Equal(t, "https://img/pasta.jpg", items[1].Image)
	assert.Empty(t, items[1].MoodTags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListItems_DessertsByID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM "foods" WHERE category = \$1 AND id = ANY\(\$2\) ORDER BY created_at, id LIMIT \$3`).
		WithArgs(models.CategoryDessert, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(columns))

	items, err := store.ListItems(context.Background(), models.CatalogFilter{
		FoodType: models.FoodTypeDessert,
		IDs:      []string{"d-1", "d-2"},
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListItems_QueryError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT .+ FROM "foods"`).WillReturnError(errors.New("connection reset"))

	_, err := store.ListItems(context.Background(), models.CatalogFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresStore_GetItem(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM "foods" WHERE id = \$1`).
		WithArgs("food-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("food-1", "비빔밥", "한식", "", int64(8000), "", "{밥}", "{}", 4.2, true, now, now))

	item, err := store.GetItem(context.Background(), "food-1")
	require.NoError(t, err)
	assert.Equal(t, "비빔밥", item.Name)
	assert.Equal(t, []string{"밥"}, item.Tags)

	mock.ExpectQuery(`SELECT .+ FROM "foods" WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err = store.GetItem(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
