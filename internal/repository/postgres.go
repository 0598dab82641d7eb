// Package repository persists the authored menu item pool. Postgres is the
// source of truth, Redis fronts reads, Elasticsearch mirrors items for
// full-text search.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"cardapio-service/internal/common/database"
	"cardapio-service/internal/common/errors"
	"cardapio-service/internal/common/logger"
	"cardapio-service/internal/menu"
)

const menuItemColumns = `id, name, description, category, price, preparation_time,
	is_available, is_vegetarian, is_vegan, is_gluten_free, special_offer,
	ingredients, tags, preparation_date, day_of_week`

// MenuStore is the read/write contract over the menu item pool.
type MenuStore interface {
	List(ctx context.Context) ([]menu.Item, error)
	GetByID(ctx context.Context, id string) (*menu.Item, error)
	Create(ctx context.Context, item menu.Item) (*menu.Item, error)
	Update(ctx context.Context, item menu.Item) (*menu.Item, error)
	Delete(ctx context.Context, id string) error
}

// PostgresMenuStore implements MenuStore on PostgreSQL.
type PostgresMenuStore struct {
	db     *database.PostgresClient
	logger logger.Logger
}

// NewPostgresMenuStore creates the Postgres-backed menu store.
func NewPostgresMenuStore(db *database.PostgresClient, log logger.Logger) *PostgresMenuStore {
	return &PostgresMenuStore{db: db, logger: log}
}

// List returns the full item pool ordered by creation time, so the daily
// rotation sees a stable ordering.
func (s *PostgresMenuStore) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	defer rows.Close()

	items := []menu.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, errors.NewDatabaseError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return items, nil
}

// GetByID returns a single item or an ITEM_NOT_FOUND error.
func (s *PostgresMenuStore) GetByID(ctx context.Context, id string) (*menu.Item, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE id = $1`, id)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewItemNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return &item, nil
}

// Create inserts a new item, assigning a UUID when the caller left the ID
// empty.
func (s *PostgresMenuStore) Create(ctx context.Context, item menu.Item) (*menu.Item, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO menu_items (`+menuItemColumns+`, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())`,
		item.ID, item.Name, item.Description, string(item.Category),
		item.Price, item.PreparationTime,
		item.IsAvailable, item.IsVegetarian, item.IsVegan, item.IsGlutenFree, item.SpecialOffer,
		pq.Array(item.Ingredients), pq.Array(item.Tags),
		item.PreparationDate, nullableWeekday(item.DayOfWeek))
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	s.logger.Info("Menu item created", map[string]interface{}{
		"itemId": item.ID,
		"name":   item.Name,
	})
	return &item, nil
}

// Update replaces an existing item in full.
func (s *PostgresMenuStore) Update(ctx context.Context, item menu.Item) (*menu.Item, error) {
	result, err := s.db.Exec(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, category = $4, price = $5,
			preparation_time = $6, is_available = $7, is_vegetarian = $8,
			is_vegan = $9, is_gluten_free = $10, special_offer = $11,
			ingredients = $12, tags = $13, preparation_date = $14,
			day_of_week = $15, updated_at = NOW()
		WHERE id = $1`,
		item.ID, item.Name, item.Description, string(item.Category),
		item.Price, item.PreparationTime,
		item.IsAvailable, item.IsVegetarian, item.IsVegan, item.IsGlutenFree, item.SpecialOffer,
		pq.Array(item.Ingredients), pq.Array(item.Tags),
		item.PreparationDate, nullableWeekday(item.DayOfWeek))
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	if affected == 0 {
		return nil, errors.NewItemNotFoundError(item.ID)
	}
	return &item, nil
}

// Delete removes an item by ID.
func (s *PostgresMenuStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return errors.NewDatabaseError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	if affected == 0 {
		return errors.NewItemNotFoundError(id)
	}

	s.logger.Info("Menu item deleted", map[string]interface{}{"itemId": id})
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (menu.Item, error) {
	var item menu.Item
	var price sql.NullFloat64
	var prepTime sql.NullInt64
	var prepDate sql.NullTime
	var dayOfWeek sql.NullString
	var ingredients, tags pq.StringArray

	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Category,
		&price, &prepTime,
		&item.IsAvailable, &item.IsVegetarian, &item.IsVegan, &item.IsGlutenFree, &item.SpecialOffer,
		&ingredients, &tags, &prepDate, &dayOfWeek)
	if err != nil {
		return menu.Item{}, err
	}

	if price.Valid {
		item.Price = &price.Float64
	}
	if prepTime.Valid {
		pt := int(prepTime.Int64)
		item.PreparationTime = &pt
	}
	if prepDate.Valid {
		item.PreparationDate = &prepDate.Time
	}
	if dayOfWeek.Valid {
		item.DayOfWeek = menu.Weekday(dayOfWeek.String)
	}
	item.Ingredients = ingredients
	item.Tags = tags
	if item.Ingredients == nil {
		item.Ingredients = []string{}
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item, nil
}

func nullableWeekday(day menu.Weekday) interface{} {
	if day == "" {
		return nil
	}
	return string(day)
}
