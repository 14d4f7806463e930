package entity

import "errors"

var (
	ErrAdIDRequired       = errors.New("ad id is required")
	ErrMetaIDRequired     = errors.New("meta id is required")
	ErrClubNameRequired   = errors.New("club name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrDuplicateKey       = errors.New("duplicate key")
)
