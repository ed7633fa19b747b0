package repository

import (
	"fmt"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/utils"
)

type signedRecord interface {
	SignedFields() []string
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) sign(rec signedRecord) string {
	return utils.SignRecord(r.secret, rec.SignedFields()...)
}

// verify rejects records whose terms changed outside the application.
func verify(secret, kind string, id int64, signature string, rec signedRecord) error {
	if !utils.VerifyRecord(secret, signature, rec.SignedFields()...) {
		return fmt.Errorf("%w: %s %d failed signature check", apperrors.ErrPersistence, kind, id)
	}
	return nil
}
