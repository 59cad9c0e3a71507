package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/finobags/shop/internal/models"
	"github.com/finobags/shop/internal/payment"
	"github.com/finobags/shop/internal/repo"
	"github.com/finobags/shop/internal/service"
	"github.com/finobags/shop/internal/session"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	Repo     *repo.GormRepo
	Sessions *session.Store

	A *AuthHTTP
	P *ProductHTTP
	C *CartHTTP
	O *OrderHTTP
}

func newTestEnv(t *testing.T) *testEnv {
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

	gormRepo := &repo.GormRepo{DB: db}
	products := []models.Product{
		{Name: "Bolsa 1", Price: 1100, Image: "/images/bag1.svg"},
		{Name: "Bolsa 2", Price: 1200, Image: "/images/bag2.svg"},
	}
	require.NoError(t, db.Create(&products).Error)

	sessions := session.NewStore()
	authSvc := &service.AuthService{Repo: gormRepo}
	checkoutSvc := &service.CheckoutService{Repo: gormRepo, Provider: payment.None{}}

	return &testEnv{
		T:        t,
		E:        echo.New(),
		Repo:     gormRepo,
		Sessions: sessions,
		A:        &AuthHTTP{Svc: authSvc, Sessions: sessions},
		P:        &ProductHTTP{Repo: gormRepo},
		C:        &CartHTTP{Repo: gormRepo, Svc: checkoutSvc},
		O:        &OrderHTTP{Repo: gormRepo},
	}
}

// doJSONRequest builds an echo context carrying sess the way the session
// middleware would.
func (env *testEnv) doJSONRequest(method, path string, body interface{}, sess *session.Session) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if sess != nil {
		c.Set("session", sess)
	}
	return rec, c
}

// stubProvider stands in for an external payment gateway.
type stubProvider struct {
	url string
	err error
}

func (p *stubProvider) CreateSession(ctx context.Context, orderID uint, items []payment.LineItem) (string, error) {
	return p.url, p.err
}

func registeredUser(t *testing.T, env *testEnv, username string) *models.User {
	t.Helper()
	payload := map[string]string{"username": username, "password": "password"}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/register", payload, env.Sessions.New())
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := env.Repo.UserByUsername(c.Request().Context(), username)
	require.NoError(t, err)
	return user
}
