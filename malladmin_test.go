package malladmin

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/ridge/must/v2"
	"github.com/stretchr/testify/require"

	"github.com/sunxu/malladmin/test"
	"github.com/sunxu/malladmin/thttp"
	"github.com/sunxu/malladmin/tlog"
	"github.com/sunxu/malladmin/wire"
)

func ok(w http.ResponseWriter, r *http.Request, data any) {
	thttp.JSONResult(tlog.Get(r.Context()), w, wire.Envelope{
		Code: wire.CodeOK,
		Data: must.OK1(json.Marshal(data)),
	}, http.StatusOK)
}

// mockBackend is an in-process rendition of the parts of the backend the
// tests exercise
func mockBackend(t *testing.T) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/web/user/code", func(w http.ResponseWriter, r *http.Request) {
		ok(w, r, wire.Captcha{UUID: "u-1", Img: "data:image/png;base64,xxx"})
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/web/user/login", func(w http.ResponseWriter, r *http.Request) {
		var req wire.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.UUID != "u-1" || req.Code != "1234" || req.Password != "secret" {
			thttp.JSONResult(tlog.Get(r.Context()), w, wire.Envelope{Code: 500, Message: "验证码错误"}, http.StatusOK)
			return
		}
		ok(w, r, wire.Token{Username: req.Username, Token: "opaque-token", Roles: []string{"admin"}, ExpiresIn: 3600})
	}).Methods(http.MethodPost)

	router.HandleFunc("/api/web/user/info", func(w http.ResponseWriter, r *http.Request) {
		token, err := thttp.BearerToken(r.Header)
		if err != nil || token != "opaque-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		ok(w, r, wire.CurrentUser{ID: 7, Username: "admin", Roles: []string{"admin"}})
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/web/user/logout", func(w http.ResponseWriter, r *http.Request) {
		ok(w, r, nil)
	}).Methods(http.MethodPost)

	router.HandleFunc("/api/product/searchByBidirectionalCursor", func(w http.ResponseWriter, r *http.Request) {
		var query wire.ProductQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))
		switch query.CursorToken {
		case "":
			next := wire.ID(42)
			page := 1
			ok(w, r, wire.CursorPage[wire.ProductVO]{
				PageSize:       2,
				List:           []wire.ProductVO{{ID: 1948237465109236481, Name: "chair", Version: 3}, {ID: 2, Name: "table"}},
				NextCursorID:   &next,
				HasNext:        true,
				CursorToken:    "abc",
				CurrentPageNum: &page,
			})
		case "abc":
			require.Equal(t, wire.ID(42), query.CursorID)
			require.Equal(t, wire.Next, query.CursorDirection)
			prev := wire.ID(2)
			page := 2
			ok(w, r, wire.CursorPage[wire.ProductVO]{
				PageSize:       2,
				List:           []wire.ProductVO{{ID: 3, Name: "lamp"}},
				HasNext:        false,
				CursorToken:    "def",
				CurrentPageNum: &page,
				PrevCursorID:   &prev,
				HasPrev:        true,
			})
		default:
			t.Errorf("unexpected cursor token %q", query.CursorToken)
		}
	}).Methods(http.MethodPost)

	router.HandleFunc("/api/product/{id}", func(w http.ResponseWriter, r *http.Request) {
		var update wire.ProductUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
		if update.Version != 3 {
			thttp.JSONResult(tlog.Get(r.Context()), w, wire.Envelope{Code: 409, Message: "商品已被修改"}, http.StatusConflict)
			return
		}
		ok(w, r, wire.ProductVO{ID: 1948237465109236481, Name: update.Name, Version: 4})
	}).Methods(http.MethodPut)

	return router
}

func newTestClient(t *testing.T) *Client {
	client, err := New(Config{
		BaseURL:   "http://backend.test/api",
		TokenPath: filepath.Join(t.TempDir(), "session.json"),
		Transport: thttp.HandlerTransport{Context: test.Context(t), Handler: mockBackend(t)},
	})
	require.NoError(t, err)
	return client
}

func TestLoginFlow(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	captcha, err := client.Captcha(ctx)
	require.NoError(t, err)
	require.Equal(t, "u-1", captcha.UUID)

	// wrong captcha answer is a business error, nothing is stored
	_, err = client.Login(ctx, wire.LoginRequest{UUID: captcha.UUID, Username: "admin", Password: "secret", Code: "9999"})
	var bizErr wire.Error
	require.ErrorAs(t, err, &bizErr)
	require.False(t, client.Session.LoggedIn())

	token, err := client.Login(ctx, wire.LoginRequest{UUID: captcha.UUID, Username: "admin", Password: "secret", Code: "1234"})
	require.NoError(t, err)
	require.Equal(t, "opaque-token", token.Token)
	require.True(t, client.Session.LoggedIn())

	user, err := client.Info(ctx)
	require.NoError(t, err)
	require.Equal(t, wire.ID(7), user.ID)

	require.NoError(t, client.Logout(ctx))
	require.False(t, client.Session.LoggedIn())
}

func TestProductPagination(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)
	_, err := client.Login(ctx, wire.LoginRequest{UUID: "u-1", Username: "admin", Password: "secret", Code: "1234"})
	require.NoError(t, err)

	pager := client.Products.Pager(&wire.ProductQuery{Name: "a"}, 2)
	page, err := pager.First(ctx)
	require.NoError(t, err)
	require.Len(t, page.List, 2)
	require.Equal(t, wire.ID(1948237465109236481), page.List[0].ID)

	page, err = pager.Next(ctx)
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	require.False(t, page.HasNext)
}

func TestProductUpdateConflict(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)
	_, err := client.Login(ctx, wire.LoginRequest{UUID: "u-1", Username: "admin", Password: "secret", Code: "1234"})
	require.NoError(t, err)

	_, err = client.Products.Update(ctx, 1948237465109236481, wire.ProductUpdate{Version: 2, Name: "chair v2"})
	var conflict wire.ErrConflict
	require.ErrorAs(t, err, &conflict)

	updated, err := client.Products.Update(ctx, 1948237465109236481, wire.ProductUpdate{Version: 3, Name: "chair v2"})
	require.NoError(t, err)
	require.Equal(t, 4, updated.Version)
}

func TestAuthExpiryPurgesCredential(t *testing.T) {
	ctx := test.Context(t)

	expired := false
	client, err := New(Config{
		BaseURL:       "http://backend.test/api",
		TokenPath:     filepath.Join(t.TempDir(), "session.json"),
		OnAuthExpired: func() { expired = true },
		Transport:     thttp.HandlerTransport{Context: test.Context(t), Handler: mockBackend(t)},
	})
	require.NoError(t, err)

	require.NoError(t, client.Session.Save(wire.Token{Username: "admin", Token: "stale", ExpiresIn: 3600}))
	_, err = client.Info(ctx)
	require.ErrorIs(t, err, wire.ErrUnauthorized)
	require.True(t, expired)
	require.False(t, client.Session.LoggedIn())
}
