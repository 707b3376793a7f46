package model

import "errors"

var (
	ErrFieldsRequired = errors.New("please fill in all fields")
	ErrYearFormat     = errors.New("year must be 4 digits")
	ErrUnknownAuthor  = errors.New("selected author does not exist")
	ErrBookNotFound   = errors.New("book not found")
)
