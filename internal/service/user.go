package service

import (
	"context"

	"github.com/vitikova/user-service/internal/events"
	"github.com/vitikova/user-service/internal/hash"
	"github.com/vitikova/user-service/internal/logging"
	"github.com/vitikova/user-service/internal/models"
	"github.com/vitikova/user-service/internal/repo"
	"github.com/vitikova/user-service/internal/search"
	"github.com/vitikova/user-service/internal/tokens"
	"github.com/vitikova/user-service/internal/transport"
)

// UserService manages user records and the logout flow.
type UserService struct {
	Repo     *repo.GormRepo
	Index    *search.Index
	Producer *events.Producer
}

// CurrentUser resolves the bearer token's username claim to a user record.
// The token has already passed the access filter, so only the payload is
// read here.
func (s *UserService) CurrentUser(ctx context.Context, tokenStr string) (transport.UserResponse, error) {
	username, err := tokens.DecodeUsername(tokenStr)
	if err != nil {
		return transport.UserResponse{}, ErrInvalidCredentials
	}
	user, err := s.Repo.FindUserByLogin(ctx, username)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return transport.UserFromModel(user), nil
}

func (s *UserService) FindByID(ctx context.Context, id uint) (transport.UserResponse, error) {
	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return transport.UserFromModel(user), nil
}

func (s *UserService) FindAll(ctx context.Context) ([]transport.UserResponse, error) {
	users, err := s.Repo.FindAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, transport.UserFromModel(&users[i]))
	}
	return out, nil
}

func (s *UserService) Create(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	l := logging.FromContext(ctx).With("svc", "user.create")

	if req.Login == "" || req.Password == "" {
		return transport.UserResponse{}, ErrValidation
	}
	if req.PasswordConfirm != "" && req.Password != req.PasswordConfirm {
		return transport.UserResponse{}, ErrPasswordMismatch
	}

	exists, err := s.Repo.UserExistsByLogin(ctx, req.Login)
	if err != nil {
		return transport.UserResponse{}, err
	}
	if exists {
		return transport.UserResponse{}, repo.ErrUserExists
	}

	roles, err := resolveRoles(ctx, s.Repo, req.Roles)
	if err != nil {
		return transport.UserResponse{}, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return transport.UserResponse{}, err
	}

	user := models.User{
		Login:        req.Login,
		PasswordHash: pwHash,
		Passport: models.Passport{
			Series: req.Passport.Series,
			Number: req.Passport.Number,
		},
		Roles: roles,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return transport.UserResponse{}, err
	}

	if err := s.Index.IndexUser(ctx, &user); err != nil {
		l.Error("es_index_failed", "error", err)
	}
	publishUserEvent(ctx, s.Producer, events.TypeUserRegistered, &user)

	l.Info("user_created", "login", user.Login)
	return transport.UserFromModel(&user), nil
}

func (s *UserService) Update(ctx context.Context, req transport.UpdateUserRequest) (transport.UserResponse, error) {
	l := logging.FromContext(ctx).With("svc", "user.update", "id", req.ID)

	user, err := s.Repo.FindUserByID(ctx, req.ID)
	if err != nil {
		return transport.UserResponse{}, err
	}

	roles, err := resolveRoles(ctx, s.Repo, req.Roles)
	if err != nil {
		return transport.UserResponse{}, err
	}

	if req.Login != "" {
		user.Login = req.Login
	}
	if req.Password != "" {
		if req.PasswordConfirm != "" && req.Password != req.PasswordConfirm {
			return transport.UserResponse{}, ErrPasswordMismatch
		}
		pwHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return transport.UserResponse{}, err
		}
		user.PasswordHash = pwHash
	}
	user.Passport = models.Passport{
		Series: req.Passport.Series,
		Number: req.Passport.Number,
	}

	if err := s.Repo.UpdateUser(ctx, user, roles); err != nil {
		return transport.UserResponse{}, err
	}

	if err := s.Index.IndexUser(ctx, user); err != nil {
		l.Error("es_index_failed", "error", err)
	}

	l.Info("user_updated")
	return transport.UserFromModel(user), nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "user.delete", "id", id)

	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return err
	}

	if err := s.Index.DeleteUser(ctx, id); err != nil {
		l.Error("es_delete_failed", "error", err)
	}
	publishUserEvent(ctx, s.Producer, events.TypeUserDeleted, user)

	l.Info("user_deleted")
	return nil
}

// Logout blacklists the caller's token by username. The entry lives until
// the token's own expiry passes and the cleanup loop removes it.
func (s *UserService) Logout(ctx context.Context, tokenStr string) error {
	l := logging.FromContext(ctx).With("svc", "user.logout")

	username, err := tokens.DecodeUsername(tokenStr)
	if err != nil {
		return ErrInvalidCredentials
	}
	user, err := s.Repo.FindUserByLogin(ctx, username)
	if err != nil {
		return err
	}
	expiresAt, err := tokens.DecodeExpiry(tokenStr)
	if err != nil {
		return ErrInvalidCredentials
	}

	if err := s.Repo.Revoke(ctx, user.Login, tokenStr, expiresAt); err != nil {
		return err
	}

	publishUserEvent(ctx, s.Producer, events.TypeUserLoggedOut, user)

	l.Info("user_logged_out", "login", user.Login)
	return nil
}

// SearchUsers runs an admin fuzzy search over the mirrored user index.
func (s *UserService) SearchUsers(ctx context.Context, query string) (int64, []search.UserDoc, error) {
	return s.Index.Search(ctx, query)
}
