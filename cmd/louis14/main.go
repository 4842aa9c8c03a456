// Command louis14tables lays out, renders and checks HTML tables.
package main

import (
	"context"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"louis14tables/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}
