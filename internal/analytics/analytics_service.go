package analytics

import (
	"context"
	"time"

	"github.com/maikimilk/KyuyoBiyori/internal/classify"
	"github.com/maikimilk/KyuyoBiyori/internal/payslip"
	"github.com/maikimilk/KyuyoBiyori/internal/shared/contextutil"

	"go.uber.org/zap"
)

type Service interface {
	Summary(ctx context.Context) (SummaryResponse, error)
	Stats(ctx context.Context, req StatsRequest) (StatsResponse, error)
	Breakdown(ctx context.Context, req BreakdownRequest) ([]BreakdownEntry, error)
}

type service struct {
	repo   payslip.Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo payslip.Repository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:   repo,
		now:    time.Now,
		logger: logger.Named("analytics.service"),
	}
}

func (s *service) Summary(ctx context.Context) (SummaryResponse, error) {
	payslips, err := s.repo.FindAll(ctx, payslip.ListPayslipsRequest{})
	if err != nil {
		s.logger.Error("summary load failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Error(err),
		)
		return SummaryResponse{}, err
	}

	return Summarize(payslips, s.now()), nil
}

func (s *service) Stats(ctx context.Context, req StatsRequest) (StatsResponse, error) {
	// Filtering happens in Series so the pure function stays testable standalone
	payslips, err := s.repo.FindAll(ctx, payslip.ListPayslipsRequest{})
	if err != nil {
		return StatsResponse{}, err
	}

	target := req.Target
	if target == "" {
		target = TargetNet
	}
	period := req.Period
	if period == "" {
		period = PeriodMonthly
	}

	return Series(payslips, target, period, req.Kind), nil
}

func (s *service) Breakdown(ctx context.Context, req BreakdownRequest) ([]BreakdownEntry, error) {
	payslips, err := s.repo.FindAll(ctx, payslip.ListPayslipsRequest{})
	if err != nil {
		return nil, err
	}

	return BreakdownByName(payslips, req.Year, classify.Category(req.Category)), nil
}
