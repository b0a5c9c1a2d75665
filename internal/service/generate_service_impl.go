package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/domain"
)

// Values stored on projects created from an uploaded PDF.
const (
	GeneratedDescription = "Generated from PDF"
	GeneratedStatus      = "generated"
)

// ErrNotPDF is returned when the upload path does not name a .pdf file.
var ErrNotPDF = errors.New("file must be a PDF")

type generateService struct {
	backend  Backend
	observer UseCaseObserver
}

func NewGenerateService(backend Backend, observers ...UseCaseObserver) GenerateService {
	return &generateService{backend: backend, observer: useCaseObserverOrNoop(observers)}
}

func (s *generateService) GenerateFromPDF(ctx context.Context, path string, projectID string) (saved *domain.Project, err error) {
	fields := map[string]any{"file": filepath.Base(path), "project_id": projectID}
	defer track(ctx, s.observer, "generate-from-pdf", fields)(&err)

	f, err := openPDF(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	generated, err := s.backend.AnalyzePDF(ctx, path, f)
	if err != nil {
		return nil, err
	}
	fields["item_count"] = len(generated.Backlog)

	project := &domain.Project{
		ID:          projectID,
		Name:        domain.CoalesceStr(generated.Project, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))),
		Description: GeneratedDescription,
		Status:      GeneratedStatus,
		Backlog:     *generated,
	}
	saved, err = s.backend.SaveProject(ctx, project)
	if err != nil {
		return nil, err
	}
	// Save responses may carry only the project summary.
	if len(saved.Backlog.Backlog) == 0 && len(generated.Backlog) > 0 {
		saved.Backlog = *generated
	}
	saved.Name = domain.CoalesceStr(saved.Name, project.Name)
	fields["saved_id"] = saved.ID
	return saved, nil
}

func openPDF(path string) (*os.File, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("%s: %w", path, ErrNotPDF)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory: %w", path, ErrNotPDF)
	}
	return f, nil
}
