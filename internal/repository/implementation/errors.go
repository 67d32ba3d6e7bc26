package implementation

import (
	"errors"

	"arrow-be/internal/repository/contract"

	"gorm.io/gorm"
)

// translate maps driver-level errors onto repository contract errors.
// The connection must be opened with TranslateError for ErrDuplicatedKey to surface.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contract.ErrDuplicateKey
	}
	return err
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
