package service

import "errors"

var (
	ErrValidation   = errors.New("validation")    // 400
	ErrAuthRequired = errors.New("auth required") // 401
	ErrEmptyCart    = errors.New("cart is empty, nothing to checkout")
	ErrNotFound     = errors.New("not found") // 404
	ErrUserExists   = errors.New("user already exists")
)
