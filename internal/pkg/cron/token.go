package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ExpiredTokenPruner deletes revocations whose token has expired anyway.
type ExpiredTokenPruner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type TokenJobs struct {
	pruner ExpiredTokenPruner
}

func NewTokenJobs(pruner ExpiredTokenPruner) *TokenJobs {
	return &TokenJobs{pruner: pruner}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("cleanup_revoked_tokens", 6*time.Hour, j.CleanupRevokedTokens)
}

func (j *TokenJobs) CleanupRevokedTokens(ctx context.Context) error {
	deleted, err := j.pruner.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete expired revocations: %w", err)
	}
	if deleted > 0 {
		slog.Info("Cron: Expired token revocations removed", "count", deleted)
	}
	return nil
}
