// Package catalog persists orders and products with gorm so the order table
// and product picker widgets can read from a real database.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/goliatone/go-admin-dashboard/components/dashboard"
)

// Store implements dashboard.OrderRepository and dashboard.ProductOptionSource.
type Store struct {
	db *gorm.DB
}

var (
	_ dashboard.OrderRepository     = (*Store)(nil)
	_ dashboard.ProductOptionSource = (*Store)(nil)
)

// Open connects to the sqlite database at dsn and migrates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("catalog: dsn is required")
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", dsn, err)
	}
	if strings.Contains(dsn, ":memory:") {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	store := New(db)
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// New wraps an existing connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the orders and products tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&dashboard.Order{}, &dashboard.Product{}); err != nil {
		return fmt.Errorf("catalog: migrate: %w", err)
	}
	return nil
}

// Seed inserts orders and products, skipping ids that already exist.
func (s *Store) Seed(ctx context.Context, orders []dashboard.Order, products []dashboard.Product) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(orders) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&orders).Error; err != nil {
				return fmt.Errorf("catalog: seed orders: %w", err)
			}
		}
		if len(products) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error; err != nil {
				return fmt.Errorf("catalog: seed products: %w", err)
			}
		}
		return nil
	})
}

// ListOrders returns every order by id.
func (s *Store) ListOrders(ctx context.Context) ([]dashboard.Order, error) {
	var orders []dashboard.Order
	if err := s.db.WithContext(ctx).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("catalog: list orders: %w", err)
	}
	return orders, nil
}

// SearchProducts matches the term against product names, case-insensitively,
// and returns one page ordered by id.
func (s *Store) SearchProducts(ctx context.Context, query dashboard.ProductQuery) (dashboard.ProductPage, error) {
	scope := s.db.WithContext(ctx).Model(&dashboard.Product{})
	if term := strings.TrimSpace(query.Term); term != "" {
		scope = scope.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(term))+"%")
	}
	scope = scope.Session(&gorm.Session{})
	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return dashboard.ProductPage{}, fmt.Errorf("catalog: count products: %w", err)
	}
	offset := max(query.Offset, 0)
	page := scope.Order("id").Offset(offset)
	if query.Limit > 0 {
		page = page.Limit(query.Limit)
	}
	var products []dashboard.Product
	if err := page.Find(&products).Error; err != nil {
		return dashboard.ProductPage{}, fmt.Errorf("catalog: search products: %w", err)
	}
	return dashboard.ProductPage{
		Products: products,
		Total:    int(total),
		HasMore:  offset+len(products) < int(total),
	}, nil
}

// TopProducts returns the products with the highest booked amount.
func (s *Store) TopProducts(ctx context.Context, limit int) ([]dashboard.Product, error) {
	q := s.db.WithContext(ctx).Order("amount DESC").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var products []dashboard.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("catalog: top products: %w", err)
	}
	return products, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
