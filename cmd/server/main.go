package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/exp/slog"

	"cattus/internal/app/server"
	"cattus/internal/config"
	"cattus/internal/utils/logger"
)

func main() {
	conf := config.MustLoad()
	log := logger.WithLevel(conf.Env, conf.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(conf, log)
	if err != nil {
		log.Error("Ошибка инициализации сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		log.Error("Сервер завершился с ошибкой", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
