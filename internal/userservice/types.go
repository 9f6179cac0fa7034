package userservice

import (
	"database/sql"
	"time"

	"github.com/inkwellapp/inkwell/internal/common"
)

type tokenScope string

const (
	TokenScopeAuth tokenScope = "token:auth"

	AuthTokenTime time.Duration = 7 * 24 * time.Hour

	tokenCacheTime time.Duration = 5 * time.Minute
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m             *UserModel
	c             *common.Cache
	defaultAvatar string
}

type UserModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	IsStaff   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"-"`
}

// Profile is the public face of an account. Exactly one row exists per
// user, created empty at registration time.
type Profile struct {
	ID       int     `json:"id"`
	UserID   int     `json:"user_id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	Bio      string  `json:"bio"`
	Avatar   string  `json:"avatar"`
	Website  string  `json:"website"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

type Token struct {
	Plain  string     `json:"token"`
	Hash   []byte     `json:"-"`
	UserID int        `json:"-"`
	Expiry time.Time  `json:"expiry"`
	Scope  tokenScope `json:"-"`
}
