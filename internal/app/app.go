package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gosheets/internal/pkg/pkglog"
	"github.com/shandysiswandi/gosheets/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gosheets/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gosheets/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	uploadID  pkguid.StringID
	goroutine *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	// closers run in registration order on Stop
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

func New() *App {
	pkglog.InitLogging()

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}
