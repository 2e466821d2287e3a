package repository

import (
	"gorm.io/gorm"

	"list-backend/internal/domain"
)

// ListRepository defines the data operations for lists and their items.
//
// Every lookup that can return a list filters by owner, and every item
// lookup filters by list, so "someone else's" and "nonexistent" are the
// same miss: gorm.ErrRecordNotFound. Ownership filtering is mandatory at
// the query boundary; there is no unscoped variant.
type ListRepository interface {
	Create(list *domain.List) error
	FindByOwner(ownerID uint) ([]domain.List, error)
	FindByIDAndOwner(id, ownerID uint) (*domain.List, error)
	Update(list *domain.List) error
	DeleteWithItems(list *domain.List) error

	CreateItem(item *domain.ListItem) error
	ItemsByListID(listID uint) ([]domain.ListItem, error)
	FindItem(itemID, listID uint) (*domain.ListItem, error)
	UpdateItem(item *domain.ListItem) error
	DeleteItem(item *domain.ListItem) error
}

// gormListRepository implements ListRepository using GORM
type gormListRepository struct {
	db *gorm.DB
}

// NewGormListRepository creates a new GORM list repository
func NewGormListRepository(db *gorm.DB) ListRepository {
	return &gormListRepository{db: db}
}

func (r *gormListRepository) Create(list *domain.List) error {
	return r.db.Create(list).Error
}

func (r *gormListRepository) FindByOwner(ownerID uint) ([]domain.List, error) {
	var lists []domain.List
	if err := r.db.Where("user_id = ?", ownerID).Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// FindByIDAndOwner is the fused existence/ownership lookup: a list owned by
// another user is indistinguishable from a missing one.
func (r *gormListRepository) FindByIDAndOwner(id, ownerID uint) (*domain.List, error) {
	var list domain.List
	err := r.db.Where("id = ? AND user_id = ?", id, ownerID).First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *gormListRepository) Update(list *domain.List) error {
	return r.db.Save(list).Error
}

// DeleteWithItems removes a list and all of its items in one transaction:
// either both deletes commit or neither does.
func (r *gormListRepository) DeleteWithItems(list *domain.List) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", list.ID).Delete(&domain.ListItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(list).Error
	})
}

func (r *gormListRepository) CreateItem(item *domain.ListItem) error {
	return r.db.Create(item).Error
}

func (r *gormListRepository) ItemsByListID(listID uint) ([]domain.ListItem, error) {
	var items []domain.ListItem
	if err := r.db.Where("list_id = ?", listID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindItem looks an item up by (id, list_id); an item id that belongs to a
// different list is a miss.
func (r *gormListRepository) FindItem(itemID, listID uint) (*domain.ListItem, error) {
	var item domain.ListItem
	err := r.db.Where("id = ? AND list_id = ?", itemID, listID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormListRepository) UpdateItem(item *domain.ListItem) error {
	return r.db.Save(item).Error
}

func (r *gormListRepository) DeleteItem(item *domain.ListItem) error {
	return r.db.Delete(item).Error
}
