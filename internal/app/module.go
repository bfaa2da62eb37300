package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gosheets/internal/sheet"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.sheet.enabled") {
		closer, err := sheet.New(sheet.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uploadID,
		})
		if err != nil {
			slog.Error("failed to init module sheet", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			a.addCloser("Sheet upload workers", closer)
		}
	}
}
