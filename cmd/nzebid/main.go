package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

const (
	codeErrorArgs = iota + 1
	codeInternalError
)

func exitf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

func main() {
	conf, err := loadConfig(os.Args[1:])
	if err != nil {
		exitf(codeErrorArgs, "Failure while parsing arguments: %s\n", err)
	}
	zapConf, err := conf.ZapConf()
	if err != nil {
		exitf(codeErrorArgs, "Failure while parsing arguments: %s\n", err)
	}
	logger, err := zapConf.Build()
	if err != nil {
		exitf(codeErrorArgs, "Failure while instantiating logger: %s\n", err)
	}
	defer logger.Sync()

	logger.Info("Starting server", conf.Fields()...)
	server, err := New(logger, conf)
	if err != nil {
		logger.Error("Can not initialize server", zap.Error(err))
		exitf(codeInternalError, "Can not initialize server: %s\n", err)
	}
	// a failed warm-up is not fatal, the next request loads again
	words := server.service.Words(context.Background())
	logger.Info("Dictionary loaded", zap.Int("words", len(words)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		<-ctx.Done()
		logger.Info("Shutting down", zap.Duration("timeout", conf.ShutdownTimeout))
		closeCtx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()
		if err := server.Close(closeCtx); err != nil {
			logger.Error("Shutdown error", zap.Error(err))
		}
	}()

	logger.Info("Listening started", zap.String("addr", "http://"+conf.Host))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", zap.Error(err))
		exitf(codeInternalError, "Server error: %s\n", err)
	}
	<-closed
	logger.Info("Closed")
}
