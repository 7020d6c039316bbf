// Package repository persists users, generations and payments through gorm.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrUnknownType is returned when a generation carries a type outside the
// known set.
var ErrUnknownType = errors.New("unknown generation type")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
