package web

import (
	"net/http"
	"time"

	"github.com/accessdeck/webclient/internal/config"
	"github.com/accessdeck/webclient/internal/lifecycle"
	"github.com/accessdeck/webclient/internal/monitoring"
	"github.com/accessdeck/webclient/internal/notify"
	"github.com/accessdeck/webclient/internal/web/render"
	"github.com/accessdeck/webclient/internal/web/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// sessionLifetime defines how long a portal browser session stays valid
const sessionLifetime = 24 * time.Hour

// Service represents the browser-facing web client service
type Service struct {
	server *http.Server

	Config *config.Config

	// Monitor is the client for the upstream access-monitoring REST API
	Monitor *monitoring.Client

	// Sessions holds the per-browser portal session views
	Sessions session.Storage

	// Notices holds the transient UI notices
	Notices *notify.Board

	machine *lifecycle.Machine
	writer  *render.Writer
}

// Handler assembles the HTTP handler of the web client
func (service *Service) Handler() (http.Handler, error) {
	// Create the HTML renderer and writer
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	service.writer = &render.Writer{
		Renderer: renderer,
		InternalErrorHook: func(err error) {
			log.Error().Err(err).Msg("the web client experienced an unexpected error")
		},
	}

	// Create the portal session lifecycle machine
	service.machine = lifecycle.New(service.Monitor, service.Config.LoginOpensSession)

	// Create the HTTP router
	router := chi.NewRouter()
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{service.Config.AllowedOrigin},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrorPage(writer, http.StatusNotFound, "Page not found.")
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrorPage(writer, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	router.Get("/", func(writer http.ResponseWriter, request *http.Request) {
		http.Redirect(writer, request, "/admin", http.StatusFound)
	})

	// Register the admin panel endpoints
	router.Get("/admin", service.EndpointAdminPanel)
	router.Get("/admin/fragments/history", service.EndpointAdminHistoryFragment)
	router.Post("/admin/users", service.EndpointAdminAddUser)
	router.Get("/admin/users/{id}/delete", service.EndpointAdminConfirmDelete)
	router.Post("/admin/users/{id}/delete", service.EndpointAdminDeleteUser)

	// Register the user portal endpoints
	router.Get("/portal", service.EndpointPortal)
	router.Get("/portal/fragments/history", service.EndpointPortalHistoryFragment)
	router.Post("/portal/login", service.EndpointPortalLogin)
	router.Post("/portal/access", service.EndpointPortalAccess)
	router.Post("/portal/leave", service.EndpointPortalLeave)

	return router, nil
}

// Startup starts up the web client service
func (service *Service) Startup() error {
	handler, err := service.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    service.Config.ListenAddress,
		Handler: handler,
	}
	service.server = server
	return server.ListenAndServe()
}

// Shutdown shuts down the web client service
func (service *Service) Shutdown() {
	if service.server != nil {
		service.server.Close()
		service.server = nil
	}
}
