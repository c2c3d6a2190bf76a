package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/redis/go-redis/v9"
	"github.com/stepski011/DevStore/internal/pkg/pkgconfig"
	"github.com/stepski011/DevStore/internal/pkg/pkglog"
	"github.com/stepski011/DevStore/internal/pkg/pkgrouter"
	"github.com/stepski011/DevStore/internal/pkg/pkgroutine"
	"github.com/stepski011/DevStore/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	goroutine *pkgroutine.Manager

	// resources
	redis *redis.Client
	db    *sql.DB
	aws   *aws.Config

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	// released in reverse order of registration
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	pkglog.InitLogging(pkglog.ParseLevel(app.config.GetString("log.level")))

	app.initLibraries()
	app.initResources()
	app.initClosers()
	app.initHTTPServer()
	app.initModules()

	return app
}
