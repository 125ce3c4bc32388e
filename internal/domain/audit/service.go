package audit

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

// Service handles audit history reads.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new audit service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// History lists audit records matching filter, newest first.
func (s *Service) History(ctx context.Context, filter Filter) ([]Record, error) {
	if filter.Action != "" && !filter.Action.Valid() {
		return nil, ErrInvalidInput
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, ErrInvalidInput
	}
	if filter.Limit == 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}

	records, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("audit history query failed",
			slog.String("table_name", filter.TableName),
			slog.String("row_id", filter.RowID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing audit history: %w", err)
	}
	s.logger.Debug("audit history listed", slog.Int("records", len(records)))
	return records, nil
}
