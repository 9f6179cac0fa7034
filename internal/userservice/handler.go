package userservice

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwellapp/inkwell/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

func NewUserService(db *sql.DB, c *common.Cache, defaultAvatar string) *UserService {
	return &UserService{
		m:             newUserModel(db),
		c:             c,
		defaultAvatar: defaultAvatar,
	}
}

// RegisterUser creates a new account together with its empty profile in a
// single transaction and returns an auth token for the fresh session.
func (s *UserService) RegisterUser(ctx context.Context, username, email, password string) (*Token, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: username,
		Email:    email,
	}

	err := u.Password.set(password)
	if err != nil {
		return nil, err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, tx, &u)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	err = s.m.insertProfile(ctx, tx, u.ID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	token, err := s.m.createToken(ctx, tx, u.ID, AuthTokenTime, TokenScopeAuth)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return token, nil
}

// LoginUser verifies the credentials and issues a new auth token.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*Token, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getByUsername(ctx, username)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrAuthenticationFailure
		}
		return nil, err
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	token, err := s.m.createToken(ctx, tx, user.ID, AuthTokenTime, TokenScopeAuth)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return token, nil
}

// LogoutUser deletes every auth token the user holds and evicts the
// presented token from the cache.
func (s *UserService) LogoutUser(ctx context.Context, userID int, token string) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.deleteTokens(ctx, userID, TokenScopeAuth)
	if err != nil {
		return err
	}

	if token != "" {
		s.c.Delete(common.CacheKeyUserByAccessToken(hashToken(token)))
	}

	return nil
}

func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)

	key := common.CacheKeyUserByAccessToken(hash)
	if cached, ok := s.c.Get(key); ok {
		if user, ok := cached.(*User); ok {
			return user, nil
		}
	}

	user, err := s.m.getUserByToken(ctx, TokenScopeAuth, hash)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, user, tokenCacheTime)

	return user, nil
}

// GetProfile returns the profile for a username. A missing avatar always
// resolves to the configured placeholder path.
func (s *UserService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	key := common.CacheKeyProfile(username)
	if cached, ok := s.c.Get(key); ok {
		if p, ok := cached.(*Profile); ok {
			return p, nil
		}
	}

	p, err := s.m.getProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if p.Avatar == "" {
		p.Avatar = s.defaultAvatar
	}

	s.c.Set(key, p)

	return p, nil
}

type UpdateProfileRequest struct {
	UserID  int
	Email   *string
	Bio     string
	Website string
	// Avatar, when non-nil, is the stored path of a freshly uploaded file.
	Avatar *string
}

// UpdateProfile mutates the profile belonging to req.UserID. Ownership is
// enforced by construction: the row is addressed by the authenticated
// user's ID, never by a client-supplied profile ID.
func (s *UserService) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*Profile, error) {
	v := common.NewValidator()
	validateInt(v, req.UserID, "user_id")
	if req.Email != nil {
		validateEmail(v, *req.Email)
	}
	validateBio(v, req.Bio)
	validateWebsite(v, req.Website)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	current, err := s.m.getProfileByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	current.Email = req.Email
	current.Bio = req.Bio
	current.Website = req.Website
	if req.Avatar != nil {
		current.Avatar = *req.Avatar
	}

	err = s.m.updateProfile(ctx, current)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyProfile(current.Username))

	if current.Avatar == "" {
		current.Avatar = s.defaultAvatar
	}

	return current, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByID(ctx, id)
}

// StaffEmails returns a fresh snapshot of all staff account emails.
func (s *UserService) StaffEmails(ctx context.Context) ([]string, error) {
	return s.m.staffEmails(ctx)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
