// Package accounts handles registration and login for the engagement API.
// It issues the HS256 access tokens the auth middleware verifies.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/video-platform/internal/platform/auth"
	"github.com/example/video-platform/services/engagement/internal/store"
)

const accessTokenTTL = 24 * time.Hour

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Session is a logged-in user with their access token.
type Session struct {
	User        store.User `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int64      `json:"expires_in"`
}

type Accounts struct {
	users  store.UserStore
	secret []byte
}

func New(users store.UserStore, secret []byte) *Accounts {
	return &Accounts{users: users, secret: secret}
}

// Register creates a user and logs them in.
func (a *Accounts) Register(ctx context.Context, username, email, password, channelName string) (Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if !usernameRe.MatchString(username) {
		return Session{}, fmt.Errorf("%w: username must be 3-32 word characters", store.ErrValidation)
	}
	if len(email) > 254 || !emailRe.MatchString(email) {
		return Session{}, fmt.Errorf("%w: invalid email", store.ErrValidation)
	}
	if len(password) < 8 {
		return Session{}, fmt.Errorf("%w: password must be at least 8 characters", store.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	if channelName = strings.TrimSpace(channelName); channelName == "" {
		channelName = username
	}

	u, err := a.users.Create(ctx, store.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		ChannelName:  channelName,
		Role:         "user",
	})
	if err != nil {
		return Session{}, err
	}
	return a.session(u)
}

// Login authenticates by username or email. Unknown login and wrong password
// are indistinguishable to the caller.
func (a *Accounts) Login(ctx context.Context, login, password string) (Session, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return Session{}, fmt.Errorf("%w: login and password are required", store.ErrValidation)
	}

	u, err := a.users.GetByLogin(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, store.ErrForbidden
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, store.ErrForbidden
	}
	return a.session(u)
}

func (a *Accounts) session(u store.User) (Session, error) {
	if len(a.secret) == 0 {
		return Session{}, errors.New("missing jwt secret")
	}
	now := time.Now().UTC()
	exp := now.Add(accessTokenTTL)

	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: u.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return Session{}, err
	}

	u.PasswordHash = ""
	return Session{User: u, AccessToken: signed, ExpiresIn: int64(time.Until(exp).Seconds())}, nil
}
