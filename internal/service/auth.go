package service

import (
	"context"
	"errors"

	"github.com/vitikova/user-service/internal/events"
	"github.com/vitikova/user-service/internal/hash"
	"github.com/vitikova/user-service/internal/logging"
	"github.com/vitikova/user-service/internal/models"
	"github.com/vitikova/user-service/internal/repo"
	"github.com/vitikova/user-service/internal/search"
	"github.com/vitikova/user-service/internal/tokens"
	"github.com/vitikova/user-service/internal/transport"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService orchestrates sign-up, sign-in and token checks over the
// credential store, token issuer and revocation list.
type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *tokens.Service
	Producer *events.Producer
	Index    *search.Index
}

// SignUp registers a user and immediately authenticates them: the returned
// token is the same one a follow-up sign-in would produce.
func (s *AuthService) SignUp(ctx context.Context, req transport.SignUpRequest) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_up")

	if req.Login == "" || req.Password == "" {
		return "", ErrValidation
	}
	// Confirmation must match before anything touches the store.
	if req.Password != req.PasswordConfirm {
		l.Warn("sign_up_rejected", "reason", "password mismatch")
		return "", ErrPasswordMismatch
	}

	exists, err := s.Repo.UserExistsByLogin(ctx, req.Login)
	if err != nil {
		return "", err
	}
	if exists {
		l.Warn("sign_up_rejected", "reason", "login taken", "login", req.Login)
		return "", repo.ErrUserExists
	}

	roles, err := resolveRoles(ctx, s.Repo, req.Roles)
	if err != nil {
		return "", err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return "", err
	}

	user := models.User{
		Login:        req.Login,
		PasswordHash: pwHash,
		Roles:        roles,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return "", err
	}

	if err := s.Index.IndexUser(ctx, &user); err != nil {
		l.Error("es_index_failed", "error", err)
	}
	publishUserEvent(ctx, s.Producer, events.TypeUserRegistered, &user)

	l.Info("user_registered", "login", user.Login)
	return s.issueFor(&user)
}

// SignIn authenticates the credentials and returns a fresh token. A
// successful login clears any prior forced-logout entries for the user.
func (s *AuthService) SignIn(ctx context.Context, req transport.SignInRequest) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_in", "login", req.Login)

	if req.Login == "" || req.Password == "" {
		return "", ErrValidation
	}

	user, err := s.Repo.FindUserByLogin(ctx, req.Login)
	if err != nil {
		l.Warn("sign_in_failed", "reason", "unknown login")
		return "", err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("sign_in_failed", "reason", "bad password")
		return "", ErrInvalidCredentials
	}

	if err := s.Repo.PurgeForUser(ctx, user.Login); err != nil {
		return "", err
	}

	publishUserEvent(ctx, s.Producer, events.TypeUserLoggedIn, user)

	l.Info("sign_in_successful")
	return s.issueFor(user)
}

// Check answers whether the token is cryptographically valid. Revocation is
// deliberately not consulted here; that is the access filter's concern.
func (s *AuthService) Check(token string) bool {
	return s.Tokens.Validate(token)
}

func (s *AuthService) issueFor(user *models.User) (string, error) {
	roleNames := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roleNames = append(roleNames, string(r.Name))
	}
	return s.Tokens.Issue(user.Login, roleNames)
}

