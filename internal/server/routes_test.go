package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/gorm"

	"list-backend/internal/domain"
	"list-backend/internal/service"
)

// Stub services: function fields override behavior per test; unset fields
// fall back to a sensible default.

type stubAuthService struct {
	registerFn func(context.Context, service.RegisterRequest) (*service.UserResponse, error)
	loginFn    func(ctx context.Context, username, password string) (*service.TokenResponse, error)
	resolveFn  func(context.Context, string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, req service.RegisterRequest) (*service.UserResponse, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, req)
	}
	return &service.UserResponse{ID: 1, Username: req.Username, Email: req.Email, IsActive: true}, nil
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*service.TokenResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, username, password)
	}
	return &service.TokenResponse{AccessToken: "stub-token", TokenType: "bearer"}, nil
}

func (s *stubAuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if s.resolveFn != nil {
		return s.resolveFn(ctx, token)
	}
	if token == "valid-token" {
		return &domain.User{ID: 1, Username: "alice", IsActive: true}, nil
	}
	return nil, service.ErrUnauthorized
}

type stubListService struct {
	getListsFn   func(context.Context, *domain.User) ([]service.ListResponse, error)
	createListFn func(context.Context, *domain.User, service.CreateListRequest) (*service.ListResponse, error)
	getListFn    func(context.Context, *domain.User, uint) (*service.ListWithItemsResponse, error)
	updateListFn func(context.Context, *domain.User, uint, service.UpdateListRequest) (*service.ListResponse, error)
	deleteListFn func(context.Context, *domain.User, uint) error
	getItemsFn   func(context.Context, *domain.User, uint) ([]service.ItemResponse, error)
	createItemFn func(context.Context, *domain.User, uint, service.CreateItemRequest) (*service.ItemResponse, error)
	updateItemFn func(context.Context, *domain.User, uint, uint, service.UpdateItemRequest) (*service.ItemResponse, error)
	deleteItemFn func(context.Context, *domain.User, uint, uint) error
	toggleItemFn func(context.Context, *domain.User, uint, uint) (*service.ItemResponse, error)
}

func (s *stubListService) GetLists(ctx context.Context, caller *domain.User) ([]service.ListResponse, error) {
	if s.getListsFn != nil {
		return s.getListsFn(ctx, caller)
	}
	return []service.ListResponse{}, nil
}

func (s *stubListService) CreateList(ctx context.Context, caller *domain.User, req service.CreateListRequest) (*service.ListResponse, error) {
	if s.createListFn != nil {
		return s.createListFn(ctx, caller, req)
	}
	if req.Name == "" {
		return nil, service.ErrEmptyName
	}
	return &service.ListResponse{ID: 1, UserID: caller.ID, Name: req.Name, Description: req.Description}, nil
}

func (s *stubListService) GetList(ctx context.Context, caller *domain.User, listID uint) (*service.ListWithItemsResponse, error) {
	if s.getListFn != nil {
		return s.getListFn(ctx, caller, listID)
	}
	return nil, service.ErrNotFound
}

func (s *stubListService) UpdateList(ctx context.Context, caller *domain.User, listID uint, req service.UpdateListRequest) (*service.ListResponse, error) {
	if s.updateListFn != nil {
		return s.updateListFn(ctx, caller, listID, req)
	}
	return nil, service.ErrNotFound
}

func (s *stubListService) DeleteList(ctx context.Context, caller *domain.User, listID uint) error {
	if s.deleteListFn != nil {
		return s.deleteListFn(ctx, caller, listID)
	}
	return service.ErrNotFound
}

func (s *stubListService) GetItems(ctx context.Context, caller *domain.User, listID uint) ([]service.ItemResponse, error) {
	if s.getItemsFn != nil {
		return s.getItemsFn(ctx, caller, listID)
	}
	return nil, service.ErrNotFound
}

func (s *stubListService) CreateItem(ctx context.Context, caller *domain.User, listID uint, req service.CreateItemRequest) (*service.ItemResponse, error) {
	if s.createItemFn != nil {
		return s.createItemFn(ctx, caller, listID, req)
	}
	return nil, service.ErrNotFound
}

func (s *stubListService) UpdateItem(ctx context.Context, caller *domain.User, listID, itemID uint, req service.UpdateItemRequest) (*service.ItemResponse, error) {
	if s.updateItemFn != nil {
		return s.updateItemFn(ctx, caller, listID, itemID, req)
	}
	return nil, service.ErrNotFound
}

func (s *stubListService) DeleteItem(ctx context.Context, caller *domain.User, listID, itemID uint) error {
	if s.deleteItemFn != nil {
		return s.deleteItemFn(ctx, caller, listID, itemID)
	}
	return service.ErrNotFound
}

func (s *stubListService) ToggleItem(ctx context.Context, caller *domain.User, listID, itemID uint) (*service.ItemResponse, error) {
	if s.toggleItemFn != nil {
		return s.toggleItemFn(ctx, caller, listID, itemID)
	}
	return nil, service.ErrNotFound
}

type stubDBService struct{}

func (stubDBService) Health() map[string]string { return map[string]string{"status": "up"} }
func (stubDBService) Close() error              { return nil }
func (stubDBService) GetDB() *gorm.DB           { return nil }

func newTestRouter(authSvc *stubAuthService, listSvc *stubListService) http.Handler {
	s := &Server{
		port:        8080,
		authService: authSvc,
		listService: listSvc,
		db:          stubDBService{},
	}
	return s.RegisterRoutes()
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rec.Code != expected {
		t.Fatalf("expected status %d, got %d (body: %s)", expected, rec.Code, rec.Body.String())
	}
}

func TestRegisterEndpoint(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubListService{})

	rec := doRequest(t, router, http.MethodPost, "/auth/register", "",
		`{"username":"alice","email":"alice@x.com","password":"pw1"}`)
	mustStatus(t, rec, http.StatusCreated)

	var user service.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatal("register response must not mention the password")
	}
}

func TestRegisterEndpointFailures(t *testing.T) {
	dup := &stubAuthService{
		registerFn: func(context.Context, service.RegisterRequest) (*service.UserResponse, error) {
			return nil, service.ErrUsernameTaken
		},
	}
	router := newTestRouter(dup, &stubListService{})

	rec := doRequest(t, router, http.MethodPost, "/auth/register", "",
		`{"username":"alice","email":"alice@x.com","password":"pw1"}`)
	mustStatus(t, rec, http.StatusBadRequest)

	router = newTestRouter(&stubAuthService{}, &stubListService{})
	rec = doRequest(t, router, http.MethodPost, "/auth/register", "", `{"username":"alice"}`)
	mustStatus(t, rec, http.StatusBadRequest)

	rec = doRequest(t, router, http.MethodPost, "/auth/register", "", `{not json`)
	mustStatus(t, rec, http.StatusBadRequest)
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubListService{})

	form := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := form("username=alice&password=pw1")
	mustStatus(t, rec, http.StatusOK)
	var token service.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &token); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if token.TokenType != "bearer" || token.AccessToken == "" {
		t.Fatalf("unexpected token response: %+v", token)
	}

	rec = form("username=alice")
	mustStatus(t, rec, http.StatusBadRequest)
}

func TestLoginEndpointFailures(t *testing.T) {
	badCreds := &stubAuthService{
		loginFn: func(context.Context, string, string) (*service.TokenResponse, error) {
			return nil, service.ErrInvalidCredentials
		},
	}
	router := newTestRouter(badCreds, &stubListService{})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("username=alice&password=wrong"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	mustStatus(t, rec, http.StatusUnauthorized)
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatal("expected WWW-Authenticate: Bearer on 401")
	}

	inactive := &stubAuthService{
		loginFn: func(context.Context, string, string) (*service.TokenResponse, error) {
			return nil, service.ErrInactiveAccount
		},
	}
	router = newTestRouter(inactive, &stubListService{})
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("username=alice&password=pw1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	mustStatus(t, rec, http.StatusBadRequest)
}

func TestLogoutEndpoint(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubListService{})

	rec := doRequest(t, router, http.MethodPost, "/auth/logout", "", "")
	mustStatus(t, rec, http.StatusUnauthorized)

	rec = doRequest(t, router, http.MethodPost, "/auth/logout", "valid-token", "")
	mustStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Successfully logged out") {
		t.Fatalf("unexpected logout body: %s", rec.Body.String())
	}
}

func TestAuthRequiredOnProtectedRoutes(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubListService{})

	// Missing header.
	rec := doRequest(t, router, http.MethodGet, "/users/me/lists/", "", "")
	mustStatus(t, rec, http.StatusUnauthorized)

	// Malformed header.
	req := httptest.NewRequest(http.MethodGet, "/users/me/lists/", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	mustStatus(t, rec2, http.StatusUnauthorized)

	// Token the auth service rejects.
	rec = doRequest(t, router, http.MethodGet, "/users/me/lists/", "expired-token", "")
	mustStatus(t, rec, http.StatusUnauthorized)

	// Valid token passes through to the service.
	rec = doRequest(t, router, http.MethodGet, "/users/me/lists/", "valid-token", "")
	mustStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestCreateListEndpoint(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubListService{})

	rec := doRequest(t, router, http.MethodPost, "/users/me/lists/", "valid-token", `{"name":"Groceries"}`)
	mustStatus(t, rec, http.StatusCreated)

	var list service.ListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if list.Name != "Groceries" || list.UserID != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}

	rec = doRequest(t, router, http.MethodPost, "/users/me/lists/", "valid-token", `{"name":""}`)
	mustStatus(t, rec, http.StatusBadRequest)
}

func TestListNotFoundMapping(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubListService{})

	for _, tc := range []struct {
		method, path string
		body         string
	}{
		{http.MethodGet, "/users/me/lists/42/", ""},
		{http.MethodPut, "/users/me/lists/42/", `{"name":"x"}`},
		{http.MethodDelete, "/users/me/lists/42/", ""},
		{http.MethodGet, "/users/me/lists/42/items/", ""},
		{http.MethodPost, "/users/me/lists/42/items/", `{"content":"x"}`},
		{http.MethodPut, "/users/me/lists/42/items/7", `{"content":"x"}`},
		{http.MethodDelete, "/users/me/lists/42/items/7", ""},
		{http.MethodPatch, "/users/me/lists/42/items/7", ""},
	} {
		rec := doRequest(t, router, tc.method, tc.path, "valid-token", tc.body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestInvalidIDParams(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubListService{})

	rec := doRequest(t, router, http.MethodGet, "/users/me/lists/abc/", "valid-token", "")
	mustStatus(t, rec, http.StatusBadRequest)

	rec = doRequest(t, router, http.MethodGet, "/users/me/lists/0/", "valid-token", "")
	mustStatus(t, rec, http.StatusBadRequest)

	rec = doRequest(t, router, http.MethodPatch, "/users/me/lists/1/items/xyz", "valid-token", "")
	mustStatus(t, rec, http.StatusBadRequest)
}

func TestDeleteAndToggleEndpoints(t *testing.T) {
	listSvc := &stubListService{
		deleteListFn: func(context.Context, *domain.User, uint) error { return nil },
		toggleItemFn: func(ctx context.Context, caller *domain.User, listID, itemID uint) (*service.ItemResponse, error) {
			return &service.ItemResponse{ID: itemID, ListID: listID, Content: "milk", IsCompleted: 1}, nil
		},
	}
	router := newTestRouter(&stubAuthService{}, listSvc)

	rec := doRequest(t, router, http.MethodDelete, "/users/me/lists/1/", "valid-token", "")
	mustStatus(t, rec, http.StatusNoContent)

	rec = doRequest(t, router, http.MethodPatch, "/users/me/lists/1/items/2", "valid-token", "")
	mustStatus(t, rec, http.StatusOK)
	var item service.ItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if item.IsCompleted != 1 {
		t.Fatalf("unexpected toggle result: %+v", item)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubListService{})

	rec := doRequest(t, router, http.MethodGet, "/health", "", "")
	mustStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"status":"up"`) {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
}
