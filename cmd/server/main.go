package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"forumapi/internal/api"
	"forumapi/internal/api/middleware"
	"forumapi/internal/database"
	"forumapi/pkg/factory"
)

func main() {
	appFactory, err := factory.NewFactory()
	if err != nil {
		fmt.Printf("Could not build application: %v\n", err)
		os.Exit(1)
	}

	log := appFactory.GetLogger()
	cfg := appFactory.GetConfig()
	db := appFactory.GetDB()

	defer db.Close()

	log.Info("Starting application", map[string]interface{}{"env": cfg.AppEnv})

	migrationService := database.NewMigrationService(db, log)
	if err := migrationService.RunMigrations(); err != nil {
		log.Fatal("Could not apply migrations", map[string]interface{}{"error": err.Error()})
	}

	authHandler := api.NewAuthHandler(appFactory.GetUserService(), log)
	userHandler := api.NewUserHandler(appFactory.GetUserService(), log)
	postHandler := api.NewPostHandler(appFactory.GetPostService(), log)
	commentHandler := api.NewCommentHandler(appFactory.GetCommentService(), log)
	fileHandler := api.NewFileHandler(appFactory.GetUploadStore(), cfg.Uploads.DefaultAvatar, log)
	healthHandler := api.NewHealthHandler(db, appFactory.GetRedisClient(), log)

	mux := http.NewServeMux()

	authHandler.RegisterRoutes(mux)
	userHandler.RegisterRoutes(mux)
	postHandler.RegisterRoutes(mux)
	commentHandler.RegisterRoutes(mux)
	fileHandler.RegisterRoutes(mux)
	healthHandler.RegisterRoutes(mux)

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("Forum API"))
	})

	handler := middleware.Identity(appFactory.GetSessionStore())(middleware.Metrics(mux))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		log.Info("Starting HTTP server", map[string]interface{}{"port": cfg.Server.Port})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", map[string]interface{}{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Server stopped cleanly", map[string]interface{}{})
}
