package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"list-backend/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.rootHandler)
	r.Get("/health", s.healthHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.registerHandler)
		r.Post("/login", s.loginHandler)
		r.With(s.requireAuth).Post("/logout", s.logoutHandler)
	})

	r.Route("/users/me/lists", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.getListsHandler)
		r.Post("/", s.createListHandler)

		r.Route("/{listID}", func(r chi.Router) {
			r.Get("/", s.getListHandler)
			r.Put("/", s.updateListHandler)
			r.Delete("/", s.deleteListHandler)

			r.Route("/items", func(r chi.Router) {
				r.Get("/", s.getItemsHandler)
				r.Post("/", s.createItemHandler)
				r.Put("/{itemID}", s.updateItemHandler)
				r.Delete("/{itemID}", s.deleteItemHandler)
				r.Patch("/{itemID}", s.toggleItemHandler)
			})
		})
	})

	return r
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Welcome to List Backend API"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}

	user, err := s.authService.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Error calling Register service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// loginHandler accepts form-encoded credentials per the OAuth2 password
// flow: fields "username" and "password".
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, err := s.authService.Login(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondWithError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrInactiveAccount):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Error calling Login service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, token)
}

// logoutHandler is a server-side no-op: tokens are stateless, so logout is
// handled client-side by discarding the token. It still sits behind
// requireAuth so an unauthenticated logout is rejected.
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (s *Server) getListsHandler(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())

	lists, err := s.listService.GetLists(r.Context(), caller)
	if err != nil {
		log.Printf("Error calling GetLists service: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve lists")
		return
	}

	respondWithJSON(w, http.StatusOK, lists)
}

func (s *Server) createListHandler(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())

	var req service.CreateListRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	list, err := s.listService.CreateList(r.Context(), caller, req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyName) {
			respondWithError(w, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("Error calling CreateList service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to create list")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, list)
}

func (s *Server) getListHandler(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	listID, ok := parseIDParam(w, r, "listID")
	if !ok {
		return
	}

	list, err := s.listService.GetList(r.Context(), caller, listID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "List not found")
		} else {
			log.Printf("Error calling GetList service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve list")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, list)
}

func (s *Server) updateListHandler(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	listID, ok := parseIDParam(w, r, "listID")
	if !ok {
		return
	}

	var req service.UpdateListRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	list, err := s.listService.UpdateList(r.Context(), caller, listID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "List not found")
		case errors.Is(err, service.ErrEmptyName):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Error calling UpdateList service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to update list")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, list)
}

func (s *Server) deleteListHandler(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	listID, ok := parseIDParam(w, r, "listID")
	if !ok {
		return
	}

	if err := s.listService.DeleteList(r.Context(), caller, listID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "List not found")
		} else {
			log.Printf("Error calling DeleteList service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to delete list")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getItemsHandler(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	listID, ok := parseIDParam(w, r, "listID")
	if !ok {
		return
	}

	items, err := s.listService.GetItems(r.Context(), caller, listID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "List not found")
		} else {
			log.Printf("Error calling GetItems service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve items")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (s *Server) createItemHandler(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	listID, ok := parseIDParam(w, r, "listID")
	if !ok {
		return
	}

	var req service.CreateItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	item, err := s.listService.CreateItem(r.Context(), caller, listID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "List not found")
		case errors.Is(err, service.ErrEmptyContent), errors.Is(err, service.ErrInvalidCompleted):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Error calling CreateItem service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to create item")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

func (s *Server) updateItemHandler(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	listID, ok := parseIDParam(w, r, "listID")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(w, r, "itemID")
	if !ok {
		return
	}

	var req service.UpdateItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	item, err := s.listService.UpdateItem(r.Context(), caller, listID, itemID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Item not found")
		case errors.Is(err, service.ErrEmptyContent), errors.Is(err, service.ErrInvalidCompleted):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Error calling UpdateItem service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to update item")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

func (s *Server) deleteItemHandler(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	listID, ok := parseIDParam(w, r, "listID")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(w, r, "itemID")
	if !ok {
		return
	}

	if err := s.listService.DeleteItem(r.Context(), caller, listID, itemID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Item not found")
		} else {
			log.Printf("Error calling DeleteItem service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to delete item")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleItemHandler(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	listID, ok := parseIDParam(w, r, "listID")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(w, r, "itemID")
	if !ok {
		return
	}

	item, err := s.listService.ToggleItem(r.Context(), caller, listID, itemID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Item not found")
		} else {
			log.Printf("Error calling ToggleItem service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to toggle item")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

// parseIDParam extracts a positive integer URL parameter, responding with a
// 400 and returning ok=false when it is malformed.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s provided", name))
		return 0, false
	}
	return uint(id), true
}

// decodeJSONBody decodes a JSON request body into dst, responding with a
// detailed 400 and returning false when the body is malformed.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case errors.Is(err, io.ErrUnexpectedEOF):
		respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName))
	case errors.Is(err, io.EOF):
		respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
	default:
		log.Printf("Error decoding request body: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error processing request")
	}
	return false
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
