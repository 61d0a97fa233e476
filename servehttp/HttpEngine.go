package servehttp

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HTTP_BIND overrides the default listen address.
func bindAddress() string {
	if addr := os.Getenv("HTTP_BIND"); addr != "" {
		return addr
	}
	return ":8080"
}

// StartHTTPServer serves the engine until SIGINT/SIGTERM, then drains
// in-flight requests for up to 3 seconds before exiting.
func StartHTTPServer(engine *gin.Engine) {
	srv := &http.Server{
		Addr:    bindAddress(),
		Handler: engine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Infoln("shutdown signal has been received, the service will exit in 3 seconds")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("http server shutdown failed: %v", err)
	}
	logrus.Infoln("http server is shutdown gracefully, new request will be rejected")

	<-ctx.Done()
	logrus.Infoln("service exiting")
}
