package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"traindash/api/handlers"
	"traindash/internal/config"
	"traindash/internal/telemetry"
	"traindash/pkg/dash"
)

func main() {
	// .env is optional; flags and the environment win.
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", "config.toml", "Path to configuration file")
		addr       = flag.String("addr", "", "Listen address (overrides config)")
		apiKey     = flag.String("api-key", "", "MTA API key")
	)
	flag.Parse()

	if *apiKey == "" {
		*apiKey = os.Getenv("MTA_API_KEY")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	registry := telemetry.NewRegistry()
	metrics := telemetry.NewMetrics(registry)

	clientCfg := dash.DefaultConfig()
	clientCfg.APIKey = *apiKey
	clientCfg.Stations = cfg.ModelStations()
	clientCfg.Refresh = cfg.RefreshPolicy()
	clientCfg.Devices = cfg.Refresh.Devices
	clientCfg.Metrics = metrics

	client, err := dash.NewLocal(clientCfg)
	if err != nil {
		log.Fatalf("Failed to create dashboard client: %v", err)
	}
	defer client.Close()

	r := mux.NewRouter()
	h := handlers.NewHandler(client, cfg.NumTrains)
	h.RegisterRoutes(r)
	r.Handle("/metrics", telemetry.Handler(registry)).Methods("GET")

	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	listen := *addr
	if listen == "" {
		listen = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	}

	srv := &http.Server{
		Addr:         listen,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
