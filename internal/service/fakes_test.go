package service

import (
	"gorm.io/gorm"

	"list-backend/internal/domain"
	"list-backend/internal/repository"
)

// In-memory repository fakes. They honor the same contract as the GORM
// implementations: misses are gorm.ErrRecordNotFound, unique violations are
// repository.ErrDuplicateKey, and lookups return copies so callers cannot
// mutate stored state without an explicit update.

type fakeUserRepo struct {
	nextID uint
	users  map[uint]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*domain.User)}
}

func (r *fakeUserRepo) Create(user *domain.User) error {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeListRepo struct {
	nextListID uint
	nextItemID uint
	lists      map[uint]*domain.List
	items      map[uint]*domain.ListItem
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{
		lists: make(map[uint]*domain.List),
		items: make(map[uint]*domain.ListItem),
	}
}

func (r *fakeListRepo) Create(list *domain.List) error {
	r.nextListID++
	list.ID = r.nextListID
	stored := *list
	r.lists[list.ID] = &stored
	return nil
}

func (r *fakeListRepo) FindByOwner(ownerID uint) ([]domain.List, error) {
	var out []domain.List
	for _, l := range r.lists {
		if l.UserID == ownerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeListRepo) FindByIDAndOwner(id, ownerID uint) (*domain.List, error) {
	l, ok := r.lists[id]
	if !ok || l.UserID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListRepo) Update(list *domain.List) error {
	stored := *list
	r.lists[list.ID] = &stored
	return nil
}

func (r *fakeListRepo) DeleteWithItems(list *domain.List) error {
	for id, item := range r.items {
		if item.ListID == list.ID {
			delete(r.items, id)
		}
	}
	delete(r.lists, list.ID)
	return nil
}

func (r *fakeListRepo) CreateItem(item *domain.ListItem) error {
	r.nextItemID++
	item.ID = r.nextItemID
	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *fakeListRepo) ItemsByListID(listID uint) ([]domain.ListItem, error) {
	var out []domain.ListItem
	for _, item := range r.items {
		if item.ListID == listID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeListRepo) FindItem(itemID, listID uint) (*domain.ListItem, error) {
	item, ok := r.items[itemID]
	if !ok || item.ListID != listID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *fakeListRepo) UpdateItem(item *domain.ListItem) error {
	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *fakeListRepo) DeleteItem(item *domain.ListItem) error {
	delete(r.items, item.ID)
	return nil
}
