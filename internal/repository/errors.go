package repository

import (
	"errors"
	"fmt"

	"pathfinder_backend/internal/util"

	"gorm.io/gorm"
)

// ErrVersionConflict means a compare-and-set write found the row changed.
var ErrVersionConflict = errors.New("version conflict")

func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, util.ErrNotFound)
	}
	return err
}
