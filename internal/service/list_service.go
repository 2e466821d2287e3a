package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"list-backend/internal/domain"
	"list-backend/internal/repository"
)

// CreateListRequest holds the data needed to create a list.
type CreateListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateListRequest holds a partial update. Pointer fields distinguish
// "omitted" from "set to the zero value"; nil fields are left untouched.
type UpdateListRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreateItemRequest holds the data needed to add an item to a list.
type CreateItemRequest struct {
	Content     string `json:"content"`
	IsCompleted int    `json:"is_completed"`
}

// UpdateItemRequest holds a partial item update; nil fields are left
// untouched.
type UpdateItemRequest struct {
	Content     *string `json:"content"`
	IsCompleted *int    `json:"is_completed"`
}

// ListResponse is the standard representation of a list.
type ListResponse struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ListWithItemsResponse is a list together with all of its items.
type ListWithItemsResponse struct {
	ListResponse
	Items []ItemResponse `json:"items"`
}

// ItemResponse is the standard representation of a list item.
type ItemResponse struct {
	ID          uint   `json:"id"`
	ListID      uint   `json:"list_id"`
	Content     string `json:"content"`
	IsCompleted int    `json:"is_completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ListService defines the ownership-scoped operations over lists and items.
//
// Every operation takes the authenticated caller as first-class input; the
// caller's resolved identity, not anything in the request path, decides what
// is visible. A list or item belonging to another user fails with
// ErrNotFound, indistinguishable from one that does not exist.
type ListService interface {
	GetLists(ctx context.Context, caller *domain.User) ([]ListResponse, error)
	CreateList(ctx context.Context, caller *domain.User, req CreateListRequest) (*ListResponse, error)
	GetList(ctx context.Context, caller *domain.User, listID uint) (*ListWithItemsResponse, error)
	UpdateList(ctx context.Context, caller *domain.User, listID uint, req UpdateListRequest) (*ListResponse, error)
	DeleteList(ctx context.Context, caller *domain.User, listID uint) error

	GetItems(ctx context.Context, caller *domain.User, listID uint) ([]ItemResponse, error)
	CreateItem(ctx context.Context, caller *domain.User, listID uint, req CreateItemRequest) (*ItemResponse, error)
	UpdateItem(ctx context.Context, caller *domain.User, listID, itemID uint, req UpdateItemRequest) (*ItemResponse, error)
	DeleteItem(ctx context.Context, caller *domain.User, listID, itemID uint) error

	// ToggleItem flips is_completed 0<->1. Two toggles return an item to its
	// original state; a single toggle is inherently not idempotent.
	ToggleItem(ctx context.Context, caller *domain.User, listID, itemID uint) (*ItemResponse, error)
}

type listService struct {
	repo repository.ListRepository
}

// NewListService creates a new instance of listService.
func NewListService(repo repository.ListRepository) ListService {
	return &listService{repo: repo}
}

func toListResponse(list *domain.List) ListResponse {
	return ListResponse{
		ID:          list.ID,
		UserID:      list.UserID,
		Name:        list.Name,
		Description: list.Description,
		CreatedAt:   list.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   list.UpdatedAt.Format(time.RFC3339),
	}
}

func toItemResponse(item *domain.ListItem) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		ListID:      item.ListID,
		Content:     item.Content,
		IsCompleted: item.IsCompleted,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}

// ownedList runs the fused existence/ownership lookup shared by every
// operation below.
func (s *listService) ownedList(caller *domain.User, listID uint) (*domain.List, error) {
	list, err := s.repo.FindByIDAndOwner(listID, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Error fetching list %d: %v", listID, err)
		return nil, errors.New("failed to retrieve list")
	}
	return list, nil
}

// ownedItem requires the list ownership check to pass first, then looks the
// item up by (id, list_id).
func (s *listService) ownedItem(caller *domain.User, listID, itemID uint) (*domain.ListItem, error) {
	if _, err := s.ownedList(caller, listID); err != nil {
		return nil, err
	}
	item, err := s.repo.FindItem(itemID, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Error fetching item %d in list %d: %v", itemID, listID, err)
		return nil, errors.New("failed to retrieve item")
	}
	return item, nil
}

func (s *listService) GetLists(ctx context.Context, caller *domain.User) ([]ListResponse, error) {
	lists, err := s.repo.FindByOwner(caller.ID)
	if err != nil {
		log.Printf("Error fetching lists for user %d: %v", caller.ID, err)
		return nil, errors.New("failed to retrieve lists")
	}

	responses := make([]ListResponse, 0, len(lists))
	for i := range lists {
		responses = append(responses, toListResponse(&lists[i]))
	}
	return responses, nil
}

func (s *listService) CreateList(ctx context.Context, caller *domain.User, req CreateListRequest) (*ListResponse, error) {
	if req.Name == "" {
		return nil, ErrEmptyName
	}

	list := &domain.List{
		UserID:      caller.ID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(list); err != nil {
		log.Printf("Error creating list for user %d: %v", caller.ID, err)
		return nil, errors.New("failed to create list")
	}

	resp := toListResponse(list)
	return &resp, nil
}

func (s *listService) GetList(ctx context.Context, caller *domain.User, listID uint) (*ListWithItemsResponse, error) {
	list, err := s.ownedList(caller, listID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ItemsByListID(list.ID)
	if err != nil {
		log.Printf("Error fetching items for list %d: %v", list.ID, err)
		return nil, errors.New("failed to retrieve list items")
	}

	resp := &ListWithItemsResponse{
		ListResponse: toListResponse(list),
		Items:        make([]ItemResponse, 0, len(items)),
	}
	for i := range items {
		resp.Items = append(resp.Items, toItemResponse(&items[i]))
	}
	return resp, nil
}

func (s *listService) UpdateList(ctx context.Context, caller *domain.User, listID uint, req UpdateListRequest) (*ListResponse, error) {
	list, err := s.ownedList(caller, listID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrEmptyName
		}
		list.Name = *req.Name
	}
	if req.Description != nil {
		list.Description = *req.Description
	}

	if err := s.repo.Update(list); err != nil {
		log.Printf("Error updating list %d: %v", list.ID, err)
		return nil, errors.New("failed to update list")
	}

	resp := toListResponse(list)
	return &resp, nil
}

func (s *listService) DeleteList(ctx context.Context, caller *domain.User, listID uint) error {
	list, err := s.ownedList(caller, listID)
	if err != nil {
		return err
	}

	// The list and its items go in one transaction; no state where one
	// survives the other.
	if err := s.repo.DeleteWithItems(list); err != nil {
		log.Printf("Error deleting list %d: %v", list.ID, err)
		return errors.New("failed to delete list")
	}
	return nil
}

func (s *listService) GetItems(ctx context.Context, caller *domain.User, listID uint) ([]ItemResponse, error) {
	list, err := s.ownedList(caller, listID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ItemsByListID(list.ID)
	if err != nil {
		log.Printf("Error fetching items for list %d: %v", list.ID, err)
		return nil, errors.New("failed to retrieve items")
	}

	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toItemResponse(&items[i]))
	}
	return responses, nil
}

func (s *listService) CreateItem(ctx context.Context, caller *domain.User, listID uint, req CreateItemRequest) (*ItemResponse, error) {
	list, err := s.ownedList(caller, listID)
	if err != nil {
		return nil, err
	}
	if req.Content == "" {
		return nil, ErrEmptyContent
	}
	if req.IsCompleted != 0 && req.IsCompleted != 1 {
		return nil, ErrInvalidCompleted
	}

	item := &domain.ListItem{
		ListID:      list.ID,
		Content:     req.Content,
		IsCompleted: req.IsCompleted,
	}
	if err := s.repo.CreateItem(item); err != nil {
		log.Printf("Error creating item in list %d: %v", list.ID, err)
		return nil, errors.New("failed to create item")
	}

	resp := toItemResponse(item)
	return &resp, nil
}

func (s *listService) UpdateItem(ctx context.Context, caller *domain.User, listID, itemID uint, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.ownedItem(caller, listID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		if *req.Content == "" {
			return nil, ErrEmptyContent
		}
		item.Content = *req.Content
	}
	if req.IsCompleted != nil {
		if *req.IsCompleted != 0 && *req.IsCompleted != 1 {
			return nil, ErrInvalidCompleted
		}
		item.IsCompleted = *req.IsCompleted
	}

	if err := s.repo.UpdateItem(item); err != nil {
		log.Printf("Error updating item %d: %v", item.ID, err)
		return nil, errors.New("failed to update item")
	}

	resp := toItemResponse(item)
	return &resp, nil
}

func (s *listService) DeleteItem(ctx context.Context, caller *domain.User, listID, itemID uint) error {
	item, err := s.ownedItem(caller, listID, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(item); err != nil {
		log.Printf("Error deleting item %d: %v", item.ID, err)
		return errors.New("failed to delete item")
	}
	return nil
}

func (s *listService) ToggleItem(ctx context.Context, caller *domain.User, listID, itemID uint) (*ItemResponse, error) {
	item, err := s.ownedItem(caller, listID, itemID)
	if err != nil {
		return nil, err
	}

	if item.IsCompleted == 0 {
		item.IsCompleted = 1
	} else {
		item.IsCompleted = 0
	}

	if err := s.repo.UpdateItem(item); err != nil {
		log.Printf("Error toggling item %d: %v", item.ID, err)
		return nil, errors.New("failed to toggle item")
	}

	resp := toItemResponse(item)
	return &resp, nil
}
