package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/db"
	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/repository"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := repository.NewSQLiteProjectRepo(s.db).List(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	out := make([]projectJSON, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectSummary(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadProject(r.Context(), s.db, r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectDetail(p))
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	s.saveProject(w, r, "")
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	s.saveProject(w, r, r.PathValue("id"))
}

// saveProject creates (empty id) or replaces a project together with its
// backlog, in one transaction.
func (s *Server) saveProject(w http.ResponseWriter, r *http.Request, id string) {
	var body saveProjectJSON
	if !decodeBody(w, r, &body) {
		return
	}
	p := body.toDomain()
	if strings.TrimSpace(p.Name) == "" {
		writeError(w, http.StatusBadRequest, "projectName is required")
		return
	}
	if msg := validateItems(p.Backlog.Backlog); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var saved *domain.Project
	err := s.uow.WithinTx(r.Context(), func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		if id == "" {
			if err := projects.Create(ctx, p); err != nil {
				return err
			}
		} else {
			current, err := projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			p.ID = current.ID
			p.CreatedAt = current.CreatedAt
		}

		_, idMap, err := repository.NewSQLiteBacklogItemRepo(tx).ReplaceForProject(ctx, p.ID, p.Backlog.Backlog)
		if err != nil {
			return err
		}
		remapPlan(&p.Backlog, idMap)
		if err := projects.Update(ctx, p); err != nil {
			return err
		}
		if err := s.syncSprints(ctx, tx, p.ID); err != nil {
			return err
		}
		saved, err = s.loadProject(ctx, tx, p.ID)
		return err
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, projectDetail(saved))
}

func (s *Server) handleListSprints(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := repository.NewSQLiteProjectRepo(s.db).GetByID(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	sprints, err := repository.NewSQLiteSprintRepo(s.db).ListByProject(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sprints)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item domain.BacklogItem
	if !decodeBody(w, r, &item) {
		return
	}
	if msg := validateItem(item); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	projectID := r.PathValue("id")
	var created *domain.BacklogItem
	err := s.uow.WithinTx(r.Context(), func(ctx context.Context, tx db.DBTX) error {
		var err error
		created, err = repository.NewSQLiteBacklogItemRepo(tx).Create(ctx, projectID, item)
		if err != nil {
			return err
		}
		return s.afterItemChange(ctx, tx, projectID)
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var item domain.BacklogItem
	if !decodeBody(w, r, &item) {
		return
	}
	item.ID = domain.ItemID(r.PathValue("id"))
	if msg := validateItem(item); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var updated *domain.BacklogItem
	err := s.uow.WithinTx(r.Context(), func(ctx context.Context, tx db.DBTX) error {
		items := repository.NewSQLiteBacklogItemRepo(tx)
		if err := items.Update(ctx, item); err != nil {
			return err
		}
		got, projectID, err := items.GetByID(ctx, item.ID)
		if err != nil {
			return err
		}
		updated = got
		return s.afterItemChange(ctx, tx, projectID)
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := domain.ItemID(r.PathValue("id"))
	err := s.uow.WithinTx(r.Context(), func(ctx context.Context, tx db.DBTX) error {
		items := repository.NewSQLiteBacklogItemRepo(tx)
		_, projectID, err := items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := items.Delete(ctx, id); err != nil {
			return err
		}
		return s.afterItemChange(ctx, tx, projectID)
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	body, err := sniffPDF(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	backlog, err := s.analyzer.Analyze(r.Context(), header.Filename, body)
	switch {
	case errors.Is(err, ErrAnalysisUnavailable):
		writeError(w, http.StatusNotImplemented, err.Error())
		return
	case err != nil:
		s.logger.Error("devserver_analyze_failed", "file", header.Filename, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "analysis failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysisFrom(backlog))
}

func (s *Server) loadProject(ctx context.Context, conn db.DBTX, id string) (*domain.Project, error) {
	p, err := repository.NewSQLiteProjectRepo(conn).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := repository.NewSQLiteBacklogItemRepo(conn).ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Backlog.Backlog = items
	return p, nil
}

// afterItemChange bumps the project's updated_at and re-derives sprints.
func (s *Server) afterItemChange(ctx context.Context, tx db.DBTX, projectID string) error {
	if err := repository.NewSQLiteProjectRepo(tx).Touch(ctx, projectID); err != nil {
		return err
	}
	return s.syncSprints(ctx, tx, projectID)
}

func (s *Server) syncSprints(ctx context.Context, tx db.DBTX, projectID string) error {
	p, err := s.loadProject(ctx, tx, projectID)
	if err != nil {
		return err
	}
	sprints := repository.NewSQLiteSprintRepo(tx)
	existing, err := sprints.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	return sprints.ReplaceForProject(ctx, projectID, deriveSprints(existing, p.Backlog.Backlog, p.CreatedAt))
}

func validateItems(items []domain.BacklogItem) string {
	for i, it := range items {
		if it.EstimatedHours != nil && *it.EstimatedHours < 0 {
			return fmt.Sprintf("backlogItems[%d].estimatedHours must not be negative", i)
		}
	}
	return ""
}

func validateItem(it domain.BacklogItem) string {
	if strings.TrimSpace(it.Title) == "" {
		return "title is required"
	}
	if it.EstimatedHours != nil && *it.EstimatedHours < 0 {
		return "estimatedHours must not be negative"
	}
	return ""
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrInvalidParent):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		s.logger.Error("devserver_store_failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorJSON{Message: msg})
}

