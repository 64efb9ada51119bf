package model

import "errors"

var (
	// ErrInputNotFound means the input file or location does not exist
	ErrInputNotFound = errors.New("input not found")
	// ErrEmptyInput means the input has no header row
	ErrEmptyInput = errors.New("input is empty")
	// ErrSchemaMismatch means an expected column is absent
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrTypeConversion means a value failed the final type cast.
	// Earlier gates should make this impossible, so it is fatal.
	ErrTypeConversion = errors.New("type conversion failed")
)
