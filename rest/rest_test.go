package rest

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/sunxu/malladmin/test"
	"github.com/sunxu/malladmin/thttp"
	"github.com/sunxu/malladmin/tlog"
	"github.com/sunxu/malladmin/wire"
)

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) {
	return f()
}

var noToken = tokenSourceFunc(func() (*oauth2.Token, error) {
	return nil, thttp.ErrMissingAuthToken
})

func newTestClient(t *testing.T, handler http.Handler, config Config) *Client {
	ctx := test.Context(t)
	config.BaseURL = "http://backend.test/api"
	if config.Source == nil {
		config.Source = noToken
	}
	config.Transport = thttp.HandlerTransport{Context: ctx, Handler: handler}
	client, err := New(config)
	require.NoError(t, err)
	return client
}

func envelope(data string) string {
	return `{"code": 200, "message": "操作成功", "data": ` + data + `}`
}

func TestGetUnwrapsEnvelope(t *testing.T) {
	ctx := test.Context(t)

	router := mux.NewRouter()
	router.HandleFunc("/api/product/findById", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "42", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(envelope(`{"id": 1948237465109236481, "name": "chair", "version": 3}`)))
		require.NoError(t, err)
	})

	client := newTestClient(t, router, Config{})
	product, err := Get[wire.ProductVO](ctx, client, "/product/findById", url.Values{"id": {"42"}})
	require.NoError(t, err)
	require.Equal(t, wire.ID(1948237465109236481), product.ID)
	require.Equal(t, "chair", product.Name)
	require.Equal(t, 3, product.Version)
}

func TestBearerTokenAttached(t *testing.T) {
	ctx := test.Context(t)

	var seen string
	router := mux.NewRouter()
	router.HandleFunc("/api/web/user/info", func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		thttp.JSONResult(tlog.Get(r.Context()), w, wire.Envelope{Code: wire.CodeOK, Data: []byte(`{"id": 7, "username": "admin"}`)}, http.StatusOK)
	})

	client := newTestClient(t, router, Config{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "secret"}),
	})
	user, err := Get[wire.CurrentUser](ctx, client, "/web/user/info", nil)
	require.NoError(t, err)
	require.Equal(t, "admin", user.Username)
	require.Equal(t, "Bearer secret", seen)
}

func TestBusinessFailure(t *testing.T) {
	ctx := test.Context(t)

	router := mux.NewRouter()
	router.HandleFunc("/api/attribute/insert", func(w http.ResponseWriter, r *http.Request) {
		thttp.JSONResult(tlog.Get(r.Context()), w, wire.Envelope{Code: 500, Message: "属性名称已存在"}, http.StatusOK)
	})

	client := newTestClient(t, router, Config{})
	_, err := Post[wire.AttributeVO](ctx, client, "/attribute/insert", wire.AttributeCreate{Name: "颜色"})
	var bizErr wire.Error
	require.ErrorAs(t, err, &bizErr)
	require.Equal(t, 500, bizErr.Code)
	require.Equal(t, "属性名称已存在", bizErr.Message)
}

func TestAuthExpiredHTTPStatus(t *testing.T) {
	ctx := test.Context(t)

	router := mux.NewRouter()
	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	expired := false
	client := newTestClient(t, router, Config{OnAuthExpired: func() { expired = true }})
	_, err := Get[wire.CurrentUser](ctx, client, "/web/user/info", nil)
	require.ErrorIs(t, err, wire.ErrUnauthorized)
	require.True(t, expired)
}

func TestAuthExpiredEnvelopeCode(t *testing.T) {
	ctx := test.Context(t)

	router := mux.NewRouter()
	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		thttp.JSONResult(tlog.Get(r.Context()), w, wire.Envelope{Code: 401, Message: "登录已过期"}, http.StatusOK)
	})

	expired := false
	client := newTestClient(t, router, Config{OnAuthExpired: func() { expired = true }})
	_, err := Get[wire.CurrentUser](ctx, client, "/web/user/info", nil)
	require.ErrorIs(t, err, wire.ErrUnauthorized)
	require.True(t, expired)
}

func TestVersionConflict(t *testing.T) {
	ctx := test.Context(t)

	router := mux.NewRouter()
	router.HandleFunc("/api/product/{id}", func(w http.ResponseWriter, r *http.Request) {
		thttp.JSONResult(tlog.Get(r.Context()), w, wire.Envelope{Code: 409, Message: "产品已被修改"}, http.StatusConflict)
	}).Methods(http.MethodPut)

	client := newTestClient(t, router, Config{})
	_, err := Put[wire.ProductVO](ctx, client, "/product/42", wire.ProductUpdate{Version: 1, Name: "chair"})
	var conflict wire.ErrConflict
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "产品已被修改", conflict.Message)
}

func TestMalformedBody(t *testing.T) {
	ctx := test.Context(t)

	router := mux.NewRouter()
	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("<html>gateway error</html>"))
		require.NoError(t, err)
	})

	client := newTestClient(t, router, Config{})
	_, err := Get[wire.CurrentUser](ctx, client, "/web/user/info", nil)
	require.Error(t, err)
	require.NotErrorIs(t, err, wire.ErrUnauthorized)
}

func TestDeleteWithNullData(t *testing.T) {
	ctx := test.Context(t)

	router := mux.NewRouter()
	router.HandleFunc("/api/product/{id}", func(w http.ResponseWriter, r *http.Request) {
		thttp.JSONResult(tlog.Get(r.Context()), w, wire.Envelope{Code: wire.CodeOK, Data: []byte("null")}, http.StatusOK)
	}).Methods(http.MethodDelete)

	client := newTestClient(t, router, Config{})
	_, err := Del[struct{}](ctx, client, "/product/42", nil)
	require.NoError(t, err)
}
