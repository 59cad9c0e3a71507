package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finobags/shop/internal/models"
	"github.com/finobags/shop/internal/session"
)

func addToCart(t *testing.T, env *testEnv, sess *session.Session, id string) *httptest.ResponseRecorder {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/api/cart/add/"+id, nil, sess)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, env.C.AddToCart(c))
	return rec
}

func TestAddToCartMergesEntries(t *testing.T) {
	env := newTestEnv(t)
	sess := env.Sessions.New()

	addToCart(t, env, sess, "1")
	rec := addToCart(t, env, sess, "1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []session.CartEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, 1, resp[0].ProductID)
	require.Equal(t, uint(2), resp[0].Quantity)
}

func TestAddToCartAcceptsUnknownProductID(t *testing.T) {
	env := newTestEnv(t)
	sess := env.Sessions.New()

	rec := addToCart(t, env, sess, "99")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sess.Items(), 1)
}

func TestAddToCartRejectsBadID(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/cart/add/abc", nil, env.Sessions.New())
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, env.C.AddToCart(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCartJoinsCatalog(t *testing.T) {
	env := newTestEnv(t)
	sess := env.Sessions.New()
	addToCart(t, env, sess, "1")
	addToCart(t, env, sess, "1")
	addToCart(t, env, sess, "2")
	addToCart(t, env, sess, "99") // never joins to anything

	rec, c := env.doJSONRequest(http.MethodGet, "/api/cart", nil, sess)
	require.NoError(t, env.C.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []struct {
		Product  models.Product `json:"product"`
		Quantity uint           `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	require.Equal(t, "Bolsa 1", resp[0].Product.Name)
	require.Equal(t, uint(2), resp[0].Quantity)
	require.Equal(t, "Bolsa 2", resp[1].Product.Name)
	require.Equal(t, uint(1), resp[1].Quantity)
}

func TestGetCartEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/cart", nil, env.Sessions.New())
	require.NoError(t, env.C.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestCheckoutRequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	sess := env.Sessions.New()
	addToCart(t, env, sess, "1")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/cart/checkout", nil, sess)
	require.NoError(t, env.C.Checkout(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var orders int64
	require.NoError(t, env.Repo.DB.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	sess := env.Sessions.New()
	sess.SetUser(1)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/cart/checkout", nil, sess)
	require.NoError(t, env.C.Checkout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutCompletesOrder(t *testing.T) {
	env := newTestEnv(t)
	user := registeredUser(t, env, "buyer")

	sess := env.Sessions.New()
	sess.SetUser(user.ID)
	addToCart(t, env, sess, "1")
	addToCart(t, env, sess, "1")
	addToCart(t, env, sess, "2")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/cart/checkout", nil, sess)
	require.NoError(t, env.C.Checkout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OrderID uint  `json:"order_id"`
		Total   int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.OrderID)
	require.Equal(t, int64(3400), resp.Total)

	require.Empty(t, sess.Items())

	order, err := env.Repo.GetOrder(c.Request().Context(), resp.OrderID)
	require.NoError(t, err)
	require.Equal(t, user.ID, order.UserID)
	require.Len(t, order.Items, 2)
}

func TestCheckoutRedirectsWhenProviderConfigured(t *testing.T) {
	env := newTestEnv(t)
	user := registeredUser(t, env, "buyer")
	env.C.Svc.Provider = &stubProvider{url: "https://pay.example/s/abc"}

	sess := env.Sessions.New()
	sess.SetUser(user.ID)
	addToCart(t, env, sess, "1")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/cart/checkout", nil, sess)
	require.NoError(t, env.C.Checkout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "https://pay.example/s/abc", resp["url"])
}

func TestCheckoutFallsBackWhenProviderFails(t *testing.T) {
	env := newTestEnv(t)
	user := registeredUser(t, env, "buyer")
	env.C.Svc.Provider = &stubProvider{err: errors.New("gateway down")}

	sess := env.Sessions.New()
	sess.SetUser(user.ID)
	addToCart(t, env, sess, "1")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/cart/checkout", nil, sess)
	require.NoError(t, env.C.Checkout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OrderID uint  `json:"order_id"`
		Total   int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.OrderID)
	require.Equal(t, int64(1100), resp.Total)
	require.Empty(t, sess.Items())
}
