package app

import (
	"log/slog"
	"os"

	"github.com/stepski011/DevStore/internal/devstore"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.devstore.enabled") {
		closer, err := devstore.New(devstore.Dependency{
			Config: a.config,
			Router: a.router,
			ID:     a.uuid,
			DB:     a.db,
			AWS:    a.aws,
		})
		if err != nil {
			slog.Error("failed to init module devstore", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			a.addCloser("DevStore", closer)
		}
	}
}
