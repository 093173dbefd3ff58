package stor

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey is returned when an insert or update hits a unique index.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStaleState is returned by conditional updates that matched no row because
	// the row was no longer in the expected state.
	ErrStaleState = errors.New("row not in expected state")
)

// WithTx runs fn in a single transaction. It is attempted exactly once; a failed
// transaction is rolled back and its error returned unchanged.
func WithTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}

// WithStorsTx is WithTx with the transaction handle already wrapped in Stors.
func WithStorsTx(db *gorm.DB, fn func(stors *Stors) error) error {
	return WithTx(db, func(tx *gorm.DB) error {
		return fn(NewGormStors(tx))
	})
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// translateDuplicate maps unique index violations to ErrDuplicateKey. Drivers that
// gorm cannot translate are matched on their message text.
func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "Duplicate entry") {
		return errors.Wrap(ErrDuplicateKey, err.Error())
	}

	return err
}
