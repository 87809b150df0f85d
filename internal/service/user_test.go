package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitikova/user-service/internal/repo"
	"github.com/vitikova/user-service/internal/transport"
)

func createUserReq(login string, roles ...string) transport.CreateUserRequest {
	return transport.CreateUserRequest{
		Login:           login,
		Password:        "Secret123",
		PasswordConfirm: "Secret123",
		Roles:           roles,
	}
}

func TestUserService_Create_And_FindByID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.users.Create(ctx, createUserReq("alice", "ADMIN"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, "alice", created.Login)
	assert.Equal(t, []string{"ADMIN"}, created.Roles)

	found, err := env.users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestUserService_Create_DuplicateLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Create(ctx, createUserReq("alice"))
	require.NoError(t, err)

	_, err = env.users.Create(ctx, createUserReq("alice"))
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrUserExists)
}

func TestUserService_Create_DefaultsToUserRole(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	created, err := env.users.Create(context.Background(), createUserReq("bob"))
	require.NoError(t, err)
	assert.Equal(t, []string{"USER"}, created.Roles)
}

func TestUserService_FindAll(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Create(ctx, createUserReq("alice"))
	require.NoError(t, err)
	_, err = env.users.Create(ctx, createUserReq("bob"))
	require.NoError(t, err)

	all, err := env.users.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alice", all[0].Login)
	assert.Equal(t, "bob", all[1].Login)
}

func TestUserService_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := env.users.FindByID(context.Background(), 12345)
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserService_Update_ReplacesRolesAndPassport(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.users.Create(ctx, createUserReq("alice", "USER"))
	require.NoError(t, err)

	req := transport.UpdateUserRequest{
		CreateUserRequest: transport.CreateUserRequest{
			Login: "alice",
			Passport: transport.PassportRequest{
				Series: "MP",
				Number: "1234567",
			},
			Roles: []string{"ADMIN"},
		},
		ID: created.ID,
	}

	updated, err := env.users.Update(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"ADMIN"}, updated.Roles)
	assert.Equal(t, "MP", updated.Passport.Series)
	assert.Equal(t, "1234567", updated.Passport.Number)

	found, err := env.users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, found)
}

func TestUserService_Update_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	req := transport.UpdateUserRequest{
		CreateUserRequest: createUserReq("ghost"),
		ID:                999,
	}
	_, err := env.users.Update(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserService_Delete(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.users.Create(ctx, createUserReq("alice"))
	require.NoError(t, err)

	require.NoError(t, env.users.Delete(ctx, created.ID))

	_, err = env.users.FindByID(ctx, created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserService_CurrentUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.auth.SignUp(ctx, signUpReq("alice"))
	require.NoError(t, err)

	me, err := env.users.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Login)
	assert.Equal(t, []string{"USER"}, me.Roles)
}

func TestUserService_Logout_BlacklistsUsername(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.auth.SignUp(ctx, signUpReq("alice"))
	require.NoError(t, err)

	require.NoError(t, env.users.Logout(ctx, token))

	revoked, err := env.rp.IsRevoked(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, revoked)

	// The token itself stays cryptographically valid; only the filter's
	// blacklist lookup rejects it.
	assert.True(t, env.auth.Check(token))
}

func TestUserService_Logout_UnknownUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.tokens.Issue("ghost", []string{"USER"})
	require.NoError(t, err)

	err = env.users.Logout(ctx, token)
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
