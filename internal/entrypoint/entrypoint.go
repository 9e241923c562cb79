package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/libraryhub/internal/config"
	http_controllers "github.com/mrlokans/libraryhub/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop taking requests before the services they use go away
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	backgroundCtx, cancelBackground := context.WithCancel(context.Background())
	if err := app.Start(backgroundCtx); err != nil {
		cancelBackground()
		app.Shutdown(context.Background())
		log.Fatalf("Failed to start background jobs: %v", err)
	}

	router := http_controllers.NewRouter(NewRouterConfig(app, version))

	onShutdown := func(ctx context.Context) {
		app.Shutdown(ctx)
		cancelBackground()
	}

	Serve(router, cfg, onShutdown)
}

// NewRouterConfig exposes the app's services to the HTTP layer.
func NewRouterConfig(app *App, version string) http_controllers.RouterConfig {
	routerCfg := http_controllers.RouterConfig{
		Database:  app.Database,
		Members:   app.Members,
		Catalog:   app.Catalog,
		Lending:   app.Checkouts,
		Billing:   app.Billing,
		Dashboard: app.Dashboard,
		Renewals:  app.Renewals,
		Audit:     app.Audit,
		Reminders: app.Scheduler,
		Version:   version,
	}
	if app.Tasks != nil {
		routerCfg.Tasks = app.Tasks
		routerCfg.Queue = app.Tasks
	}
	return routerCfg
}
