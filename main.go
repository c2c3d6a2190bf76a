package main

import (
	"context"
	"time"

	"github.com/stepski011/DevStore/internal/app"
)

const shutdownTimeout = 15 * time.Second

func main() {
	application := app.New()
	<-application.Start()

	// the shutdown deadline starts once a signal arrives, not at boot
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	application.Stop(ctx)
}
