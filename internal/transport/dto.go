package transport

import "github.com/vitikova/user-service/internal/models"

type SignUpRequest struct {
	Login           string   `json:"login"`
	Password        string   `json:"password"`
	PasswordConfirm string   `json:"passwordConfirm"`
	Roles           []string `json:"roles"`
}

type SignInRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type PassportRequest struct {
	Series string `json:"passportSeries"`
	Number string `json:"passportNumber"`
}

type CreateUserRequest struct {
	Login           string          `json:"login"`
	Password        string          `json:"password"`
	PasswordConfirm string          `json:"passwordConfirm"`
	Passport        PassportRequest `json:"passport"`
	Roles           []string        `json:"roles"`
}

// UpdateUserRequest is the creation payload plus the identifier taken from
// the URL path. Plain composition, nothing polymorphic.
type UpdateUserRequest struct {
	CreateUserRequest
	ID uint `json:"-"`
}

type UserResponse struct {
	ID       uint            `json:"id"`
	Login    string          `json:"login"`
	Passport PassportRequest `json:"passport"`
	Roles    []string        `json:"roles"`
}

func UserFromModel(u *models.User) UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r.Name))
	}
	return UserResponse{
		ID:    u.ID,
		Login: u.Login,
		Passport: PassportRequest{
			Series: u.Passport.Series,
			Number: u.Passport.Number,
		},
		Roles: roles,
	}
}
