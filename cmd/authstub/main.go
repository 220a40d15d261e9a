// Command authstub serves the development authentication backend used to
// exercise the client by hand.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/vtvclient/internal/authstub"
	"github.com/dmitrijs2005/vtvclient/internal/logging"
)

func main() {

	addr := flag.String("addr", ":8080", "listen address")
	accessTTL := flag.Duration("access-ttl", 15*time.Minute, "access token lifetime")
	refreshTTL := flag.Duration("refresh-ttl", 24*time.Hour, "refresh token lifetime")
	flag.Parse()

	logger, err := logging.New(logging.FormatText, "info", os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	stub, err := authstub.New(authstub.Config{
		Secret:     []byte(os.Getenv("VTV_STUB_SECRET")),
		AccessTTL:  *accessTTL,
		RefreshTTL: *refreshTTL,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := &http.Server{Addr: *addr, Handler: stub.Handler(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "authstub listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, err.Error())
	}
}
