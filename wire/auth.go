package wire

import "golang.org/x/exp/slices"

// Captcha is a login captcha challenge: an opaque key and a rendered image.
type Captcha struct {
	UUID string `json:"uuid"`
	Img  string `json:"img"`
}

// LoginRequest is the credential set submitted to /web/user/login. UUID and
// Code echo a previously fetched Captcha.
type LoginRequest struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"`
	Phone    string `json:"phone,omitempty"`
}

// Token is a successful login response.
type Token struct {
	Username  string   `json:"username"`
	Token     string   `json:"token"`
	Roles     []string `json:"roles"`
	ExpiresIn int64    `json:"expiresIn"`
}

// CurrentUser describes the logged-in user as reported by /web/user/info.
type CurrentUser struct {
	ID       ID       `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the user carries the given role
func (u CurrentUser) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
