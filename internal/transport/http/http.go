package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/auth"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/config"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/logger"
	appmiddleware "github.com/kaviyavarma08/Cafeteria-Management-System/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Server struct {
	server *http.Server
	router *chi.Mux
}

func NewServer(cfg *config.Config, h *Handler, tokens *auth.Manager) *Server {
	router := newRouter(cfg)
	registerRoutes(router, h, tokens)

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         ":" + cfg.AppPort,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

func (s *Server) Run() error {
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func registerRoutes(router *chi.Mux, h *Handler, tokens *auth.Manager) {
	router.With(appmiddleware.StrictRateLimit).Post("/signup", h.Signup)
	router.With(appmiddleware.StrictRateLimit).Post("/login", h.Login)
	router.With(appmiddleware.GeneralRateLimit).Get("/menu", h.GetMenu)

	// UserRateLimit must run after RequireAuth so the bucket is keyed by the
	// token subject rather than the client IP.
	router.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireAuth(tokens))
		r.Use(appmiddleware.UserRateLimit)
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{orderID}", h.GetOrderDetail)
	})
}

func newRouter(cfg *config.Config) *chi.Mux {
	router := chi.NewMux()

	router.Use(logger.RequestIDMiddleware)
	router.Use(logger.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	router.Use(c.Handler)

	return router
}
