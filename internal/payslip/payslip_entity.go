package payslip

import (
	"time"

	"github.com/maikimilk/KyuyoBiyori/internal/classify"
	"github.com/maikimilk/KyuyoBiyori/internal/extract"
	"github.com/maikimilk/KyuyoBiyori/internal/reconcile"

	"github.com/google/uuid"
)

const (
	KindSalary = "salary"
	KindBonus  = "bonus"
)

// Payslip is one uploaded document's extraction result. The gross, deduction
// and net figures are never stored: they are recomputed from Items on every
// read so an edited item can never leave a stale cached total behind.
type Payslip struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Filename string     `gorm:"type:varchar(255);not null"`
	Date     *time.Time `gorm:"type:date;index"`
	Kind     string     `gorm:"type:varchar(10);not null;default:'salary';index"`

	// OCRText is the raw OCR evidence retained for later reparse; empty
	// when the document was entered manually.
	OCRText string `gorm:"column:ocr_text;type:text"`

	// Declared totals as printed on the document, distinct from the
	// itemized sums. Nil when the figure was not found.
	DeclaredGross     *int `gorm:"type:bigint"`
	DeclaredDeduction *int `gorm:"type:bigint"`
	DeclaredNet       *int `gorm:"type:bigint"`

	// Items are exclusively owned: deleting the payslip deletes them.
	Items []PayslipItem `gorm:"foreignKey:PayslipID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayslipItem is a single extracted or user-edited financial line. Position
// is the user-visible display order (drag-reorder persists through it).
type PayslipItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayslipID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Amount    *int      `gorm:"type:bigint"`
	Category  string    `gorm:"type:varchar(10);not null;default:''"` // payment | deduction | ''
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EngineItems converts the stored rows into the engine's item shape,
// preserving display order.
func (p *Payslip) EngineItems() []reconcile.Item {
	items := make([]reconcile.Item, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, reconcile.Item{
			Name:     it.Name,
			Amount:   it.Amount,
			Category: classify.Category(it.Category),
		})
	}
	return items
}

// DeclaredTotals packs the stored declared figures for the reconciler.
func (p *Payslip) DeclaredTotals() extract.Totals {
	return extract.Totals{
		Gross:     p.DeclaredGross,
		Deduction: p.DeclaredDeduction,
		Net:       p.DeclaredNet,
	}
}
