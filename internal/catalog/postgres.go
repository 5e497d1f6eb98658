// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"food-recommender/internal/models"

	"github.com/lib/pq"
)

const foodColumns = `id, name, category, description, price, image, tags, mood_tags, rating,
	is_available, created_at, updated_at`

// PostgresStore reads the catalog from a relational table.
type PostgresStore struct {
	db    *sql.DB
	table string
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = "foods"
	}
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
}

func (s *PostgresStore) ListItems(ctx context.Context, filter models.CatalogFilter) ([]models.Food, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.AvailableOnly {
		where = append(where, "is_available = TRUE")
	}
	switch filter.FoodType {
	case models.FoodTypeAny:
	case models.FoodTypeDessert:
		where = append(where, "category = "+arg(models.CategoryDessert))
	default:
		where = append(where, "category <> "+arg(models.CategoryDessert))
	}
	if len(filter.IDs) > 0 {
		where = append(where, "id = ANY("+arg(pq.Array(filter.IDs))+")")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := "SELECT " + foodColumns + " FROM " + s.table
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id LIMIT " + arg(limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	var items []models.Food
	for rows.Next() {
		item, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetItem(ctx context.Context, id string) (*models.Food, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+foodColumns+" FROM "+s.table+" WHERE id = $1", id)
	item, err := scanFood(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog item %s: %w", id, err)
	}
	return item, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFood(row scanner) (*models.Food, error) {
	var (
		f           models.Food
		description sql.NullString
		image       sql.NullString
		price       sql.NullInt64
	)
	err := row.Scan(
		&f.ID, &f.Name, &f.Category, &description, &price, &image,
		pq.Array(&f.Tags), pq.Array(&f.MoodTags), &f.Rating,
		&f.IsAvailable, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Description = description.String
	f.Image = image.String
	f.Price = int(price.Int64)
	return &f, nil
}
