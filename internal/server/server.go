package server

import (
	"fmt"
	"net/http"
	"time"

	"list-backend/internal/config"
	"list-backend/internal/database"
	"list-backend/internal/service"
)

type Server struct {
	port        int
	authService service.AuthService
	listService service.ListService
	db          database.Service
}

// NewServer wires the services into an http.Server with the route tree
// registered.
func NewServer(cfg config.Config, authService service.AuthService, listService service.ListService, dbService database.Service) *http.Server {
	appServer := &Server{
		port:        cfg.Port,
		authService: authService,
		listService: listService,
		db:          dbService,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
