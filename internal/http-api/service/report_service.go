package service

import (
	"context"
	"time"

	"foundhub/internal/http-api/repository"
)

type ReportService interface {
	// FrequentLostItems defaults to the trailing 30 days when no range given.
	FrequentLostItems(ctx context.Context, start, end *time.Time) ([]repository.CategoryCount, error)
	ClaimedItems(ctx context.Context, start, end *time.Time) ([]repository.CategoryCount, error)
	HomeStats(ctx context.Context) (*repository.HomeStats, error)
}

type reportService struct {
	repo repository.ReportRepository
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) FrequentLostItems(ctx context.Context, start, end *time.Time) ([]repository.CategoryCount, error) {
	e := time.Now()
	if end != nil {
		e = *end
	}
	st := e.AddDate(0, 0, -30)
	if start != nil {
		st = *start
	}
	return s.repo.FrequentLostItems(ctx, st, e)
}

func (s *reportService) ClaimedItems(ctx context.Context, start, end *time.Time) ([]repository.CategoryCount, error) {
	return s.repo.ClaimedItemsByCategory(ctx, start, end)
}

func (s *reportService) HomeStats(ctx context.Context) (*repository.HomeStats, error) {
	return s.repo.HomeStats(ctx)
}
