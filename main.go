package main

import (
	"context"
	"os"
	"os/signal"
	"statebot/app/client/lookup"
	"statebot/app/client/messenger"
	"statebot/app/config"
	"statebot/app/service/conversation"
	"statebot/app/service/geo"
	"statebot/app/service/processing"
	"statebot/app/service/users"
	"statebot/app/service/webhook"
	"statebot/app/util/mylog"

	"log/slog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, messenger.NewClient)
	do.Provide(di, lookup.NewClient)
	do.Provide(di, geo.New)
	do.Provide(di, users.New)
	do.Provide(di, conversation.New)
	do.Provide(di, processing.New)
	do.Provide(di, webhook.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	if err = do.MustInvoke[*webhook.Service](di).Run(appCtx); err != nil {
		slog.Error("Webhook server stopped", "error", err)
	}
}
