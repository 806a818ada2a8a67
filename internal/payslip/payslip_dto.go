package payslip

// ItemPayload is the wire shape of one line item. Amount and category are
// optional at the binding level: completeness is checked at save/commit time
// so the error can name the specific offending items.
type ItemPayload struct {
	Name     string `json:"name"`
	Amount   *int   `json:"amount"`
	Category string `json:"category" binding:"omitempty,oneof=payment deduction"`
}

// SavePayslipRequest persists a previewed (or manually entered) payslip.
type SavePayslipRequest struct {
	Filename          string        `json:"filename" binding:"required"`
	Date              string        `json:"date"` // YYYY-MM-DD or YYYY-MM
	Kind              string        `json:"kind" binding:"omitempty,oneof=salary bonus"`
	OCRText           string        `json:"ocr_text"`
	DeclaredGross     *int          `json:"declared_gross"`
	DeclaredDeduction *int          `json:"declared_deduction"`
	DeclaredNet       *int          `json:"declared_net"`
	Items             []ItemPayload `json:"items"`
}

// UpdateItemsRequest replaces a stored payslip's item set atomically.
type UpdateItemsRequest struct {
	Items []ItemPayload `json:"items" binding:"required"`
}

type ListPayslipsRequest struct {
	Year   *int   `form:"year"`
	Kind   string `form:"kind" binding:"omitempty,oneof=salary bonus"`
	Search string `form:"search"`
}

type PayslipItemResponse struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Amount   *int   `json:"amount"`
	Category string `json:"category"`
	Position int    `json:"position"`
}

// PreviewResponse is the transient, not-yet-persisted extraction result
// shown to the user right after upload (or reparse).
type PreviewResponse struct {
	Filename          string                `json:"filename"`
	OCRText           string                `json:"ocr_text"`
	Items             []PayslipItemResponse `json:"items"`
	GrossAmount       int                   `json:"gross_amount"`
	DeductionAmount   int                   `json:"deduction_amount"`
	NetAmount         int                   `json:"net_amount"`
	DeclaredGross     *int                  `json:"declared_gross,omitempty"`
	DeclaredDeduction *int                  `json:"declared_deduction,omitempty"`
	DeclaredNet       *int                  `json:"declared_net,omitempty"`
	Warnings          []string              `json:"warnings"`
}

type PayslipResponse struct {
	ID                string                `json:"id"`
	Filename          string                `json:"filename"`
	Date              *string               `json:"date"`
	Kind              string                `json:"kind"`
	GrossAmount       int                   `json:"gross_amount"`
	DeductionAmount   int                   `json:"deduction_amount"`
	NetAmount         int                   `json:"net_amount"`
	DeclaredGross     *int                  `json:"declared_gross,omitempty"`
	DeclaredDeduction *int                  `json:"declared_deduction,omitempty"`
	DeclaredNet       *int                  `json:"declared_net,omitempty"`
	Items             []PayslipItemResponse `json:"items"`
	Warnings          []string              `json:"warnings"`
	CreatedAt         string                `json:"created_at"`
}
