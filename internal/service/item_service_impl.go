package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"github.com/alexanderramin/autobacklog/internal/hierarchy"
)

// ErrInvalidItem wraps every backlog item validation failure.
var ErrInvalidItem = errors.New("invalid backlog item")

type itemService struct {
	backend  Backend
	observer UseCaseObserver
}

func NewItemService(backend Backend, observers ...UseCaseObserver) ItemService {
	return &itemService{backend: backend, observer: useCaseObserverOrNoop(observers)}
}

func (s *itemService) Create(ctx context.Context, projectID string, item domain.BacklogItem) (created *domain.BacklogItem, err error) {
	fields := map[string]any{"project_id": projectID}
	defer track(ctx, s.observer, "create-item", fields)(&err)

	item = normalizeItem(item)
	item.ID = ""
	if err := validateItemFields(item); err != nil {
		return nil, err
	}
	if item.HasParent() {
		p, err := s.backend.GetProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if err := validateParent(p.Backlog.Backlog, item); err != nil {
			return nil, err
		}
	}

	created, err = s.backend.CreateItem(ctx, projectID, item)
	if err != nil {
		return nil, err
	}
	fields["item_id"] = created.ID.String()
	return created, nil
}

func (s *itemService) Update(ctx context.Context, projectID string, item domain.BacklogItem) (updated *domain.BacklogItem, err error) {
	fields := map[string]any{"project_id": projectID, "item_id": item.ID.String()}
	defer track(ctx, s.observer, "update-item", fields)(&err)

	if item.ID.IsZero() {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	item = normalizeItem(item)
	if err := validateItemFields(item); err != nil {
		return nil, err
	}
	if item.HasParent() {
		p, err := s.backend.GetProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if err := validateParent(p.Backlog.Backlog, item); err != nil {
			return nil, err
		}
	}
	return s.backend.UpdateItem(ctx, item)
}

func (s *itemService) Delete(ctx context.Context, id domain.ItemID) (err error) {
	defer track(ctx, s.observer, "delete-item", map[string]any{"item_id": id.String()})(&err)
	if id.IsZero() {
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	return s.backend.DeleteItem(ctx, id)
}

// normalizeItem canonicalizes enum spellings and fills the defaults the
// edit form starts from.
func normalizeItem(item domain.BacklogItem) domain.BacklogItem {
	item.Title = strings.TrimSpace(item.Title)
	item.TaskType = domain.ParseTaskType(domain.CoalesceStr(string(item.TaskType), string(domain.TaskUserStory)))
	item.Priority = domain.ParsePriority(domain.CoalesceStr(string(item.Priority), string(domain.PriorityMedium)))
	item.Status = domain.ParseItemStatus(domain.CoalesceStr(string(item.Status), string(domain.StatusTodo)))
	item.AssignedAgent = domain.CoalesceStr(strings.TrimSpace(item.AssignedAgent), domain.UnassignedAgent)
	item.ParentID = domain.ItemIDFromPtrs(item.ParentID)
	return item
}

func validateItemFields(item domain.BacklogItem) error {
	if item.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidItem)
	}
	if item.EstimatedHours != nil && *item.EstimatedHours < 0 {
		return fmt.Errorf("%w: estimated hours must not be negative", ErrInvalidItem)
	}
	return nil
}

// validateParent rejects parents that do not exist in the project, the
// item itself, and any of the item's descendants.
func validateParent(items []domain.BacklogItem, item domain.BacklogItem) error {
	parent := *item.ParentID
	if parent == item.ID {
		return fmt.Errorf("%w: an item cannot be its own parent", ErrInvalidItem)
	}
	found := false
	for _, it := range items {
		if it.ID == parent {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: parent %s not found in project", ErrInvalidItem, parent)
	}
	if !item.ID.IsZero() && hierarchy.Descendants(items, item.ID)[parent] {
		return fmt.Errorf("%w: parent %s is a descendant of %s", ErrInvalidItem, parent, item.ID)
	}
	return nil
}
