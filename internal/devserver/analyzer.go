package devserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/importer"
)

// ErrAnalysisUnavailable is returned by analyzers that cannot process PDFs.
var ErrAnalysisUnavailable = errors.New("PDF analysis is not available in the development server")

// errNotPDF is returned when an upload does not start with the PDF magic bytes.
var errNotPDF = errors.New("uploaded file is not a PDF")

var pdfMagic = []byte("%PDF-")

// Analyzer turns an uploaded requirements document into a backlog.
type Analyzer interface {
	Analyze(ctx context.Context, filename string, r io.Reader) (*domain.ProjectBacklog, error)
}

type unavailableAnalyzer struct{}

func (unavailableAnalyzer) Analyze(context.Context, string, io.Reader) (*domain.ProjectBacklog, error) {
	return nil, ErrAnalysisUnavailable
}

// FixtureAnalyzer answers every upload with the backlog stored in a JSON or
// YAML file. The file is re-read on each upload so it can be edited while
// the server runs.
type FixtureAnalyzer struct {
	Path string
}

func NewFixtureAnalyzer(path string) (*FixtureAnalyzer, error) {
	if _, err := importer.FormatFromPath(path); err != nil {
		return nil, err
	}
	return &FixtureAnalyzer{Path: path}, nil
}

func (a *FixtureAnalyzer) Analyze(ctx context.Context, filename string, r io.Reader) (*domain.ProjectBacklog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := importer.Load(a.Path)
	if err != nil {
		return nil, fmt.Errorf("loading fixture %s: %w", a.Path, err)
	}
	return b, nil
}

// sniffPDF checks the magic bytes and returns a reader over the whole body.
func sniffPDF(r io.Reader) (io.Reader, error) {
	head := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if !bytes.Equal(head[:n], pdfMagic) {
		return nil, errNotPDF
	}
	return io.MultiReader(bytes.NewReader(head[:n]), r), nil
}
