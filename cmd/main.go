package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medclinic/internal/handlers"
	"medclinic/internal/logger"
	"medclinic/internal/repository"
	"medclinic/internal/repository/db"
	"medclinic/internal/server"
	"medclinic/internal/service"

	"github.com/spf13/viper"
)

const (
	defaultSweepTick = 1 * time.Minute
	defaultTokenTTL  = 12 * time.Hour
	defaultPort      = "8080"
)

// @title           MedClinic API
// @version         1.0
// @description     Patient records and appointment scheduling service.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// load config.yml first so the log level comes from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	// open DB
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, authConfig(log))
	apiHandler := handlers.NewHandler(services, log).
		WithPages(viper.GetString("web.templates"), viper.GetString("web.static"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start the appointment sweeper
	go services.Sweeper.Run(ctx, sweepTick())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetDefault("web.templates", "web/templates")
	viper.SetDefault("web.static", "web/static")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "medclinic.db")
		dbPath = "medclinic.db"
	}
	return db.InitDB(dbPath)
}

// authConfig reads token signing parameters. The signing key has no sane
// default; refuse to start without one.
func authConfig(log *logger.Logger) service.AuthConfig {
	key := viper.GetString("auth.signing_key")
	if key == "" {
		log.Fatalw("auth.signing_key not set in config")
	}
	ttl := defaultTokenTTL
	if mins := viper.GetInt("auth.token_ttl_min"); mins > 0 {
		ttl = time.Duration(mins) * time.Minute
	}
	return service.AuthConfig{SigningKey: key, TokenTTL: ttl}
}

func sweepTick() time.Duration {
	if d := viper.GetDuration("sweeper.tick"); d > 0 {
		return d
	}
	return defaultSweepTick
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = defaultPort
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
