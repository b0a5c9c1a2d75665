package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/importer"
)

type importService struct {
	backend  Backend
	observer UseCaseObserver
}

func NewImportService(backend Backend, observers ...UseCaseObserver) ImportService {
	return &importService{backend: backend, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProject(ctx context.Context, path string) (*ImportResult, error) {
	b, err := importer.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportBacklog(ctx, b, path)
}

func (s *importService) ImportBacklog(ctx context.Context, b *domain.ProjectBacklog, sourcePath string) (res *ImportResult, err error) {
	fields := map[string]any{"source": sourcePath}
	defer track(ctx, s.observer, "import-project", fields)(&err)

	errs, warnings := importer.ValidateBacklog(b)
	if len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	project := importer.ToProject(b, sourcePath)
	saved, err := s.backend.SaveProject(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("saving project: %w", err)
	}
	if len(saved.Backlog.Backlog) == 0 {
		saved.Backlog = project.Backlog
	}
	fields["project_id"] = saved.ID
	fields["item_count"] = len(project.Backlog.Backlog)

	return &ImportResult{
		Project:   saved,
		ItemCount: len(project.Backlog.Backlog),
		Warnings:  warnings,
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
