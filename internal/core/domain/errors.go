package domain

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrParse                = errors.New("parse error")
	ErrConfiguration        = errors.New("configuration error")
	ErrNotFound             = errors.New("not found")
	ErrOutOfStock           = errors.New("out of stock")
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
)
