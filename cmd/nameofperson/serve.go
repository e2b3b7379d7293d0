package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nameofperson/internal/handler"
	"nameofperson/internal/hub"
	"nameofperson/internal/repository"
	"nameofperson/internal/repository/sqlite"
	"nameofperson/internal/service"
)

func cmdServe(a *app, args []string) error {
	fs := a.flags("serve")
	addr := fs.String("addr", a.cfg.Server.Addr, "HTTP listen address")
	if _, err := parse(fs, args, 0, "[-addr host:port]"); err != nil {
		return err
	}

	caster, err := a.cfg.NameCast()
	if err != nil {
		return err
	}
	repo, err := sqlite.New(a.cfg.Database.Path, caster)
	if err != nil {
		return err
	}
	defer repo.Close()
	log.Printf("Database opened: %s", a.cfg.Database.Path)

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", *addr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.serve(ctx, repo, ln)
}

// serve runs the HTTP API on ln until ctx is cancelled
func (a *app) serve(ctx context.Context, repo repository.PeopleRepository, ln net.Listener) error {
	eventBus := service.NewEventBus()

	sseHub := hub.New()
	go sseHub.Run(ctx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event)
			case <-ctx.Done():
				return
			}
		}
	}()

	svc := service.NewPeopleService(repo, eventBus)
	router := handler.NewRouter(handler.NewPeopleHandler(svc, a.cfg.Export.Format), sseHub)

	// no WriteTimeout: /events responses stay open
	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ln)
	}()
	log.Printf("Server listening on %s", ln.Addr())

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
