package payslip

import (
	"errors"
	"strings"

	paysliperrors "github.com/maikimilk/KyuyoBiyori/internal/payslip/errors"
	"github.com/maikimilk/KyuyoBiyori/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return paysliperrors.ErrPayslipNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 = connection exception, 57 = operator intervention
		// (shutdown etc.) - the store itself is down, not the request.
		if strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57") {
			return apperror.Wrap(err,
				apperror.CodeServiceUnavailable,
				apperror.ErrStoreUnavailable.Message,
				apperror.ErrStoreUnavailable.HTTPStatus,
			)
		}
	}

	return err
}
