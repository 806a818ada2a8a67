package payslip

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/maikimilk/KyuyoBiyori/internal/classify"
	"github.com/maikimilk/KyuyoBiyori/internal/events"
	"github.com/maikimilk/KyuyoBiyori/internal/extract"
	"github.com/maikimilk/KyuyoBiyori/internal/messaging/kafka"
	"github.com/maikimilk/KyuyoBiyori/internal/ocr"
	paysliperrors "github.com/maikimilk/KyuyoBiyori/internal/payslip/errors"
	"github.com/maikimilk/KyuyoBiyori/internal/reconcile"
	"github.com/maikimilk/KyuyoBiyori/internal/revision"
	"github.com/maikimilk/KyuyoBiyori/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const ocrFailedWarning = "OCRの結果を取得できなかったため、項目を抽出できませんでした"

type Service interface {
	Upload(ctx context.Context, filename, mimeType string, content []byte) (PreviewResponse, error)
	Save(ctx context.Context, req SavePayslipRequest) (PayslipResponse, error)
	GetAll(ctx context.Context, filter ListPayslipsRequest) ([]PayslipResponse, error)
	GetByID(ctx context.Context, id string) (PayslipResponse, error)
	UpdateItems(ctx context.Context, id string, req UpdateItemsRequest) (PayslipResponse, error)
	Reparse(ctx context.Context, id string) (PreviewResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	ocr    ocr.Provider
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, provider ocr.Provider, logger *zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, provider, logger)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	provider ocr.Provider,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		ocr:    provider,
		logger: logger.Named("payslip.service"),
	}
}

// Upload runs the extraction pipeline against an uploaded document and
// returns a transient preview. Nothing is persisted. An OCR failure degrades
// to an empty item set with a warning instead of failing the request.
func (s *service) Upload(ctx context.Context, filename, mimeType string, content []byte) (PreviewResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	result, err := s.ocr.Extract(ctx, ocr.Document{
		Filename: filename,
		MIMEType: mimeType,
		Content:  content,
	})
	ocrFailed := err != nil
	if ocrFailed {
		s.logger.Warn("ocr extraction failed, falling back to empty parse",
			zap.String("request_id", rid),
			zap.String("filename", filename),
			zap.Error(err),
		)
		result = ocr.Result{}
	}

	var candidates []extract.Candidate
	if len(result.Fragments) > 0 {
		candidates = extract.Parse(result.Fragments)
	} else {
		candidates = extract.ParseText(result.Text)
	}
	declared := extract.ParseTotals(result.Text)

	items := make([]reconcile.Item, 0, len(candidates))
	for _, c := range candidates {
		amount := c.Amount
		items = append(items, reconcile.Item{
			Name:     c.Name,
			Amount:   &amount,
			Category: classify.Classify(c.Name),
		})
	}

	rec := reconcile.Reconcile(items, declared)
	warnings := rec.Warnings
	if ocrFailed {
		warnings = append([]string{ocrFailedWarning}, warnings...)
	}

	s.logger.Debug("upload previewed",
		zap.String("request_id", rid),
		zap.String("filename", filename),
		zap.Int("items", len(items)),
		zap.Int("warnings", len(warnings)),
	)

	return PreviewResponse{
		Filename:          filename,
		OCRText:           result.Text,
		Items:             engineItemsToResponse(items),
		GrossAmount:       rec.Gross,
		DeductionAmount:   rec.Deduction,
		NetAmount:         rec.Net,
		DeclaredGross:     declared.Gross,
		DeclaredDeduction: declared.Deduction,
		DeclaredNet:       declared.Net,
		Warnings:          warnings,
	}, nil
}

// Save persists a previewed payslip. Every item must be complete; warnings
// (declared-vs-computed mismatch, for instance) ride along with a successful
// save, they never block it.
func (s *service) Save(ctx context.Context, req SavePayslipRequest) (PayslipResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	items := payloadToEngineItems(req.Items)
	if err := revision.ValidateComplete(items); err != nil {
		return PayslipResponse{}, mapRevisionError(err)
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return PayslipResponse{}, err
	}

	kind := req.Kind
	if kind == "" {
		kind = KindSalary
	}

	p := &Payslip{
		ID:                uuid.New(),
		Filename:          req.Filename,
		Date:              date,
		Kind:              kind,
		OCRText:           req.OCRText,
		DeclaredGross:     req.DeclaredGross,
		DeclaredDeduction: req.DeclaredDeduction,
		DeclaredNet:       req.DeclaredNet,
		CreatedAt:         time.Now().UTC(),
	}
	p.Items = engineItemsToEntities(p.ID, items)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, p); err != nil {
		s.logger.Error("save payslip persist failed", zap.String("request_id", rid), zap.Error(err))
		return PayslipResponse{}, mapRepositoryError(err)
	}

	rec := reconcile.Reconcile(items, p.DeclaredTotals())

	if err := s.queueLifecycleEvent(ctx, tx, rid, events.PayslipSaved, p, rec.Net); err != nil {
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	s.logger.Info("payslip saved",
		zap.String("request_id", rid),
		zap.String("payslip_id", p.ID.String()),
		zap.String("kind", p.Kind),
		zap.Int("net_amount", rec.Net),
	)

	return mapToResponse(p), nil
}

func (s *service) GetAll(ctx context.Context, filter ListPayslipsRequest) ([]PayslipResponse, error) {
	payslips, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]PayslipResponse, len(payslips))
	for i := range payslips {
		res[i] = mapToResponse(&payslips[i])
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayslipResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(p), nil
}

// UpdateItems commits an editing session against a stored payslip: the new
// item set must be complete and replaces the old one all-or-nothing.
func (s *service) UpdateItems(ctx context.Context, id string, req UpdateItemsRequest) (PayslipResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err)
	}

	session := revision.Begin(p.EngineItems(), p.OCRText)
	session.Apply(payloadToEngineItems(req.Items))

	committed, err := session.Commit()
	if err != nil {
		return PayslipResponse{}, mapRevisionError(err)
	}

	entities := engineItemsToEntities(p.ID, committed)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.ReplaceItems(ctx, id, entities); err != nil {
		s.logger.Error("replace items failed",
			zap.String("request_id", rid),
			zap.String("payslip_id", id),
			zap.Error(err),
		)
		return PayslipResponse{}, mapRepositoryError(err)
	}

	rec := reconcile.Reconcile(committed, p.DeclaredTotals())

	if err := s.queueLifecycleEvent(ctx, tx, rid, events.PayslipUpdated, p, rec.Net); err != nil {
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	p.Items = entities
	return mapToResponse(p), nil
}

// Reparse re-runs extraction and classification against the retained OCR
// text (or re-classifies current names when no text was kept) and returns
// the result as a preview. The stored payslip is untouched.
func (s *service) Reparse(ctx context.Context, id string) (PreviewResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PreviewResponse{}, mapRepositoryError(err)
	}

	session := revision.Begin(p.EngineItems(), p.OCRText)
	session.Reparse()

	items := session.Current()
	declared := p.DeclaredTotals()
	rec := reconcile.Reconcile(items, declared)

	return PreviewResponse{
		Filename:          p.Filename,
		OCRText:           p.OCRText,
		Items:             engineItemsToResponse(items),
		GrossAmount:       rec.Gross,
		DeductionAmount:   rec.Deduction,
		NetAmount:         rec.Net,
		DeclaredGross:     declared.Gross,
		DeclaredDeduction: declared.Deduction,
		DeclaredNet:       declared.Net,
		Warnings:          rec.Warnings,
	}, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.queueLifecycleEvent(ctx, tx, rid, events.PayslipDeleted, p, 0); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) queueLifecycleEvent(
	ctx context.Context,
	tx *sql.Tx,
	rid, eventType string,
	p *Payslip,
	net int,
) error {
	if s.outbox == nil {
		return nil
	}

	event := events.PayslipLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		PayslipID:  p.ID.String(),
		Kind:       p.Kind,
		NetAmount:  net,
		OccurredAt: time.Now().UTC(),
	}
	if p.Date != nil {
		event.Date = p.Date.Format("2006-01-02")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal lifecycle event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "payslip",
		AggregateID:   p.ID.String(),
		EventType:     eventType,
		Topic:         events.PayslipLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue lifecycle event failed",
			zap.String("request_id", rid),
			zap.String("payslip_id", p.ID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// parseDate accepts YYYY-MM-DD or YYYY-MM (normalized to the first of the
// month). Empty input means the date is unknown.
func parseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return &t, nil
		}
	}
	return nil, paysliperrors.ErrInvalidDateFormat
}

func mapRevisionError(err error) error {
	if incomplete, ok := err.(*revision.IncompleteItemsError); ok {
		return paysliperrors.ValidationFailed(incomplete.Names)
	}
	return err
}

func payloadToEngineItems(payloads []ItemPayload) []reconcile.Item {
	items := make([]reconcile.Item, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, reconcile.Item{
			Name:     p.Name,
			Amount:   p.Amount,
			Category: classify.Category(p.Category),
		})
	}
	return items
}

func engineItemsToEntities(payslipID uuid.UUID, items []reconcile.Item) []PayslipItem {
	entities := make([]PayslipItem, 0, len(items))
	for i, item := range items {
		entities = append(entities, PayslipItem{
			ID:        uuid.New(),
			PayslipID: payslipID,
			Name:      item.Name,
			Amount:    item.Amount,
			Category:  string(item.Category),
			Position:  i,
		})
	}
	return entities
}

func engineItemsToResponse(items []reconcile.Item) []PayslipItemResponse {
	res := make([]PayslipItemResponse, 0, len(items))
	for i, item := range items {
		res = append(res, PayslipItemResponse{
			Name:     item.Name,
			Amount:   item.Amount,
			Category: string(item.Category),
			Position: i,
		})
	}
	return res
}

func mapToResponse(p *Payslip) PayslipResponse {
	rec := reconcile.Reconcile(p.EngineItems(), p.DeclaredTotals())

	items := make([]PayslipItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, PayslipItemResponse{
			ID:       it.ID.String(),
			Name:     it.Name,
			Amount:   it.Amount,
			Category: it.Category,
			Position: it.Position,
		})
	}

	var date *string
	if p.Date != nil {
		formatted := p.Date.Format("2006-01-02")
		date = &formatted
	}

	return PayslipResponse{
		ID:                p.ID.String(),
		Filename:          p.Filename,
		Date:              date,
		Kind:              p.Kind,
		GrossAmount:       rec.Gross,
		DeductionAmount:   rec.Deduction,
		NetAmount:         rec.Net,
		DeclaredGross:     p.DeclaredGross,
		DeclaredDeduction: p.DeclaredDeduction,
		DeclaredNet:       p.DeclaredNet,
		Items:             items,
		Warnings:          rec.Warnings,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
}
