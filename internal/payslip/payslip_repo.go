package payslip

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payslip) error
	FindByID(ctx context.Context, id string) (*Payslip, error)
	FindAll(ctx context.Context, filter ListPayslipsRequest) ([]Payslip, error)
	ReplaceItems(ctx context.Context, payslipID string, items []PayslipItem) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db:    r.db,
		sqlDB: r.sqlDB,
		tx:    tx,
	}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("payslip_items.position ASC")
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payslip, error) {
	var p Payslip
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListPayslipsRequest) ([]Payslip, error) {
	query := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Model(&Payslip{})

	if filter.Year != nil {
		query = query.Where("EXTRACT(YEAR FROM date) = ?", *filter.Year)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Search != "" {
		query = query.Where("filename ILIKE ?", "%"+filter.Search+"%")
	}

	var payslips []Payslip
	err := query.
		Order("date ASC NULLS LAST").
		Order("created_at ASC").
		Find(&payslips).Error
	return payslips, err
}

func (r *repository) Create(ctx context.Context, p *Payslip) error {
	query := `
INSERT INTO payslips (
	id, filename, date, kind, ocr_text,
	declared_gross, declared_deduction, declared_net,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
`
	if err := r.exec(ctx, query,
		p.ID, p.Filename, p.Date, p.Kind, p.OCRText,
		p.DeclaredGross, p.DeclaredDeduction, p.DeclaredNet,
	); err != nil {
		return err
	}

	return r.insertItems(ctx, p.Items)
}

// ReplaceItems swaps the whole item set in one shot. Callers run it inside a
// transaction so the replacement is all-or-nothing.
func (r *repository) ReplaceItems(ctx context.Context, payslipID string, items []PayslipItem) error {
	if err := r.exec(ctx, `DELETE FROM payslip_items WHERE payslip_id = $1`, payslipID); err != nil {
		return err
	}
	if err := r.insertItems(ctx, items); err != nil {
		return err
	}
	return r.exec(ctx, `UPDATE payslips SET updated_at = NOW() WHERE id = $1`, payslipID)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	// payslip_items go with it via ON DELETE CASCADE
	return r.exec(ctx, `DELETE FROM payslips WHERE id = $1`, id)
}

func (r *repository) insertItems(ctx context.Context, items []PayslipItem) error {
	query := `
INSERT INTO payslip_items (
	id, payslip_id, name, amount, category, position, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
`
	for _, item := range items {
		if err := r.exec(ctx, query,
			item.ID, item.PayslipID, item.Name, item.Amount, item.Category, item.Position,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) exec(ctx context.Context, query string, args ...any) error {
	exec := r.execer()
	_, err := exec.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
