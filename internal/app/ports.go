package app

import (
	"context"

	"github.com/alexanderramin/laststart/internal/domain"
)

type LatestStartUseCase interface {
	Compute(ctx context.Context, req LatestStartRequest) (*LatestStartResponse, error)
}

type LogSessionUseCase interface {
	LogSession(ctx context.Context, s *domain.WorkSessionLog) error
}
