package paysliperrors

import (
	"net/http"
	"strings"

	"github.com/maikimilk/KyuyoBiyori/internal/shared/apperror"
)

var (
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payslip not found",
		http.StatusNotFound,
	)

	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD or YYYY-MM",
		http.StatusBadRequest,
	)
)

// ValidationFailed rejects a save while items are missing an amount or a
// category. The message and details both name the offending items.
func ValidationFailed(names []string) *apperror.AppError {
	return apperror.NewWithDetails(
		apperror.CodeValidationFailed,
		"Cannot save: items missing amount or category: "+strings.Join(names, ", "),
		http.StatusUnprocessableEntity,
		map[string]any{"items": names},
	)
}
