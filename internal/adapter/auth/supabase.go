// Package auth verifies users against Supabase GoTrue.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// ErrInvalidToken is returned by Verify for missing, expired or forged tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// ProviderError carries the auth provider's own message so callers can show
// it as is.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string { return e.Message }
func (e *ProviderError) Unwrap() error { return e.Err }

type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName,omitempty"`
}

// Session is present after sign-in, and after sign-up when the project
// confirms email addresses automatically.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	User         User   `json:"user"`
}

type Authenticator struct {
	client gotrue.Client
}

func NewAuthenticator(client gotrue.Client) *Authenticator {
	return &Authenticator{client: client}
}

// SignUp registers an email/password user with full_name in user metadata.
// The returned session is nil when the project requires email confirmation.
func (a *Authenticator) SignUp(email, password, fullName string) (*User, *Session, error) {
	res, err := a.client.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     map[string]interface{}{"full_name": fullName},
	})
	if err != nil {
		return nil, nil, providerError(err)
	}
	u := userOf(res.User)
	if u.FullName == "" {
		u.FullName = fullName
	}
	if res.Session.AccessToken == "" {
		return &u, nil, nil
	}
	s := sessionOf(res.Session)
	return &u, &s, nil
}

func (a *Authenticator) SignIn(email, password string) (*Session, error) {
	res, err := a.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, providerError(err)
	}
	s := sessionOf(res.Session)
	return &s, nil
}

// Verify resolves an access token to its user.
func (a *Authenticator) Verify(token string) (*User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	res, err := a.client.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if res.ID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	u := userOf(res.User)
	return &u, nil
}

func userOf(u types.User) User {
	out := User{ID: u.ID, Email: u.Email}
	if name, ok := u.UserMetadata["full_name"].(string); ok {
		out.FullName = name
	}
	return out
}

func sessionOf(s types.Session) Session {
	return Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		User:         userOf(s.User),
	}
}

// providerError pulls the human message out of gotrue-go's
// "response status code N: {json}" errors.
func providerError(err error) error {
	msg := err.Error()
	if i := strings.Index(msg, ": {"); i >= 0 {
		var body struct {
			Msg              string `json:"msg"`
			Message          string `json:"message"`
			ErrorDescription string `json:"error_description"`
			Error            string `json:"error"`
		}
		if json.Unmarshal([]byte(msg[i+2:]), &body) == nil {
			for _, m := range []string{body.Msg, body.ErrorDescription, body.Message, body.Error} {
				if m != "" {
					msg = m
					break
				}
			}
		}
	}
	return &ProviderError{Message: msg, Err: err}
}
