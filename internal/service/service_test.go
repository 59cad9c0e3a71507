package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/finobags/shop/internal/models"
	"github.com/finobags/shop/internal/payment"
	"github.com/finobags/shop/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))

	return &repo.GormRepo{DB: db}
}

func seedCatalog(t *testing.T, r *repo.GormRepo) {
	t.Helper()
	products := []models.Product{
		{Name: "Bolsa 1", Price: 1100, Image: "/images/bag1.svg"},
		{Name: "Bolsa 2", Price: 1200, Image: "/images/bag2.svg"},
	}
	require.NoError(t, r.DB.Create(&products).Error)
}

// stubProvider records handoff calls and answers with a fixed result.
type stubProvider struct {
	url   string
	err   error
	calls int
	items []payment.LineItem
}

func (p *stubProvider) CreateSession(ctx context.Context, orderID uint, items []payment.LineItem) (string, error) {
	p.calls++
	p.items = items
	return p.url, p.err
}
