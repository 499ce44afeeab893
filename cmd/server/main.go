package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/auth"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/config"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/db"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/logger"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/menu"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/order"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/transport/http"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/user"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, tokens)

	menuRepo := menu.NewRepository(database)
	menuSvc := menu.NewService(menuRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, menuRepo)

	handler := httptransport.NewHandler(userSvc, menuSvc, orderSvc)
	srv := httptransport.NewServer(cfg, handler, tokens)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🚀 Server running at http://localhost:%s/", cfg.AppPort)
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
