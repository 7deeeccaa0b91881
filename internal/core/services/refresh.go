package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driving"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// Ensure RefreshService implements the interface.
var _ driving.RefreshService = (*RefreshService)(nil)

// RefreshTarget pairs a document source with the engine indexing it.
type RefreshTarget struct {
	Source driven.DocumentSource
	Engine driving.RAGEngine
}

// RefreshService re-scrapes documents and rebuilds the engines whose text changed.
type RefreshService struct {
	targets []RefreshTarget
}

// NewRefreshService creates a refresh service over targets, in order.
func NewRefreshService(targets ...RefreshTarget) *RefreshService {
	return &RefreshService{targets: targets}
}

// Refresh updates one document by id. The engine is rebuilt when the text
// changed or when it is in the Failed state.
func (s *RefreshService) Refresh(ctx context.Context, documentID string) (bool, error) {
	for _, target := range s.targets {
		if target.Source.Document().ID == documentID {
			return s.refresh(ctx, target)
		}
	}
	return false, fmt.Errorf("%w: %q", domain.ErrUnknownDocument, documentID)
}

// RefreshAll updates every document. One failure does not stop the others;
// all failures are joined into the returned error.
func (s *RefreshService) RefreshAll(ctx context.Context) (int, error) {
	var (
		changed int
		errs    []error
	)
	for _, target := range s.targets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		ok, err := s.refresh(ctx, target)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", target.Source.Document().ID, err))
			continue
		}
		if ok {
			changed++
		}
	}
	return changed, errors.Join(errs...)
}

func (s *RefreshService) refresh(ctx context.Context, target RefreshTarget) (bool, error) {
	id := target.Source.Document().ID
	logger.Debug("%s: refreshing from source", id)

	changed, err := target.Source.UpdateFromSource(ctx)
	if err != nil {
		return false, err
	}

	if target.Engine == nil {
		return changed, nil
	}
	if !changed && target.Engine.State() != domain.EngineFailed {
		logger.Debug("%s: unchanged, index kept", id)
		return false, nil
	}

	if err := target.Engine.Rebuild(ctx); err != nil {
		return changed, fmt.Errorf("rebuild %s: %w", id, err)
	}
	logger.Info("%s: index rebuilt", id)
	return changed, nil
}
