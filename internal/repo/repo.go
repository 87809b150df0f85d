package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("entity not found")
	ErrUserExists = errors.New("user already exists")
)

// GormRepo is the persistence layer for users, roles and the token
// blacklist. Every method runs as its own short transaction.
type GormRepo struct {
	DB *gorm.DB
}

func New(gdb *gorm.DB) *GormRepo {
	return &GormRepo{DB: gdb}
}
