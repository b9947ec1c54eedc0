// Package malladmin is the Go client SDK for the mall back-office API:
// authentication, cursor-paginated resource queries, catalog mutations and
// the real-time notification channel.
//
// A Client bundles one authenticated session. The credential is persisted
// in a file between invocations, so short-lived tools share a login the way
// browser tabs share local storage.
package malladmin

import (
	"context"
	"errors"
	"net/http"

	"github.com/sunxu/malladmin/notify"
	"github.com/sunxu/malladmin/rest"
	"github.com/sunxu/malladmin/retry"
	"github.com/sunxu/malladmin/session"
	"github.com/sunxu/malladmin/tws"
	"github.com/sunxu/malladmin/wire"
)

// Config is the configuration of a Client
type Config struct {
	// BaseURL is the API root, e.g. "https://mall.example.com/api"
	BaseURL string

	// WSBase overrides the push channel address. When empty the address is
	// derived from BaseURL.
	WSBase string

	// TokenPath is the file holding the login credential
	TokenPath string

	// OnAuthExpired is invoked after the credential is purged because the
	// backend rejected it. Typically prompts for a fresh login.
	OnAuthExpired func()

	// AlertFn receives every fresh notification
	AlertFn func(notify.Item)

	// Backoff overrides the notification channel reconnect schedule
	Backoff *retry.ExpConfig

	// WS overrides the push channel transport configuration
	WS *tws.Config

	// Transport overrides the network transport. Tests point it at an
	// in-process backend.
	Transport http.RoundTripper
}

// Client is an authenticated API client
type Client struct {
	// Session holds the login credential
	Session *session.Store

	// Notify owns the push channel and the notification list
	Notify *notify.Manager

	// Per-resource operations
	Users           UserService
	Products        ProductService
	Attributes      AttributeService
	AttributeValues AttributeValueService
	Menus           MenuService

	rest *rest.Client
}

// New creates a Client
func New(config Config) (*Client, error) {
	store, err := session.NewStore(config.TokenPath)
	if err != nil {
		return nil, err
	}

	restClient, err := rest.New(rest.Config{
		BaseURL: config.BaseURL,
		Source:  store,
		OnAuthExpired: func() {
			_ = store.Purge() // the token is rejected, nothing to salvage
			if config.OnAuthExpired != nil {
				config.OnAuthExpired()
			}
		},
		Transport: config.Transport,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		Session: store,
		Notify: notify.NewManager(notify.Config{
			REST:    restClient,
			WSBase:  config.WSBase,
			Backoff: config.Backoff,
			WS:      config.WS,
			AlertFn: config.AlertFn,
		}),
		Users:           UserService{rest: restClient},
		Products:        ProductService{rest: restClient},
		Attributes:      AttributeService{rest: restClient},
		AttributeValues: AttributeValueService{rest: restClient},
		Menus:           MenuService{rest: restClient},
		rest:            restClient,
	}, nil
}

// Login authenticates with the backend and stores the credential. UUID and
// Code of the request echo a challenge fetched with Captcha.
func (c *Client) Login(ctx context.Context, req wire.LoginRequest) (wire.Token, error) {
	token, err := rest.Post[wire.Token](ctx, c.rest, "/web/user/login", req)
	if err != nil {
		return wire.Token{}, err
	}
	if err := c.Session.Save(token); err != nil {
		return wire.Token{}, err
	}
	return token, nil
}

// Captcha fetches a login challenge: an opaque key plus a rendered image
func (c *Client) Captcha(ctx context.Context) (wire.Captcha, error) {
	return rest.Get[wire.Captcha](ctx, c.rest, "/web/user/code", nil)
}

// Info returns the identity of the logged-in user
func (c *Client) Info(ctx context.Context) (wire.CurrentUser, error) {
	return rest.Get[wire.CurrentUser](ctx, c.rest, "/web/user/info", nil)
}

// Logout ends the session: tells the backend, shuts the notification
// channel down, clears the notification list and purges the stored
// credential. An already expired credential is not an error.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := rest.Post[struct{}](ctx, c.rest, "/web/user/logout", nil); err != nil && !errors.Is(err, wire.ErrUnauthorized) {
		return err
	}
	c.Notify.Disconnect()
	c.Notify.Clear()
	return c.Session.Purge()
}

// ConnectNotifications opens the push channel for the logged-in user. The
// channel keeps reconnecting in the background until ctx is closed or
// Notify.Disconnect is called.
func (c *Client) ConnectNotifications(ctx context.Context) error {
	user, err := c.Info(ctx)
	if err != nil {
		return err
	}
	c.Notify.Connect(ctx, user.ID)
	return nil
}
