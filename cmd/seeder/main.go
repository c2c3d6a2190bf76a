// Command seeder imports the JSON fixtures of a data directory into the
// configured storage, or deletes every document.
//
//	seeder -i            import ./_data
//	seeder -d            delete everything
//	seeder -i -data dir  import another directory
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	_ "github.com/lib/pq"
	"github.com/stepski011/DevStore/internal/devstore"
	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stepski011/DevStore/internal/devstore/usecase"
	"github.com/stepski011/DevStore/internal/pkg/pkgconfig"
	"github.com/stepski011/DevStore/internal/pkg/pkglog"
	"github.com/stepski011/DevStore/internal/pkg/pkgroutine"
)

func main() {
	importFlag := flag.Bool("i", false, "import fixtures")
	deleteFlag := flag.Bool("d", false, "delete all documents")
	dataDir := flag.String("data", "./_data", "fixtures directory")
	configFile := flag.String("config", "./config/config.yaml", "config file")
	workers := flag.Int("workers", 8, "concurrent saves per stage")
	flag.Parse()

	if *importFlag == *deleteFlag {
		fmt.Fprintln(os.Stderr, "usage: seeder -i | -d")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(*configFile, *dataDir, *importFlag, *workers); err != nil {
		slog.Error("seeder failed", "error", err)
		os.Exit(1)
	}
}

func run(configFile, dataDir string, doImport bool, workers int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := pkgconfig.LoadEnv(filepath.Join(filepath.Dir(configFile), "config.env")); err != nil {
		return err
	}
	cfg, err := pkgconfig.NewViper(configFile)
	if err != nil {
		return err
	}
	pkglog.InitLogging(pkglog.ParseLevel(cfg.GetString("log.level")))

	dep := devstore.Dependency{Config: cfg}

	if cfg.GetString("database.driver") == "postgres" {
		db, err := sql.Open("postgres", cfg.GetString("database.dsn"))
		if err != nil {
			return err
		}
		defer db.Close()

		if err := store.Migrate(ctx, db); err != nil {
			return err
		}
		dep.DB = db
	} else {
		slog.Warn("seeding in-memory collections, nothing outlives this process")
	}

	if cfg.GetString("upload.driver") == "s3" || cfg.GetString("mail.driver") == "ses" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.GetString("aws.region")))
		if err != nil {
			return err
		}
		dep.AWS = &awsCfg
	}

	m, err := devstore.Build(dep)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(context.Background()); err != nil {
			slog.Error("failed to drain aggregate events", "error", err)
		}
	}()

	if !doImport {
		return m.Usecase.Purge(ctx)
	}

	fx, err := readFixtures(dataDir)
	if err != nil {
		return err
	}
	return m.Usecase.Import(ctx, fx, pkgroutine.NewManager(workers))
}

func readFixtures(dir string) (usecase.Fixtures, error) {
	var fx usecase.Fixtures
	files := []struct {
		name string
		into any
	}{
		{"users.json", &fx.Users},
		{"bootcamps.json", &fx.Bootcamps},
		{"courses.json", &fx.Courses},
		{"reviews.json", &fx.Reviews},
	}

	for _, f := range files {
		raw, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return fx, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := json.Unmarshal(raw, f.into); err != nil {
			return fx, fmt.Errorf("decode %s: %w", f.name, err)
		}
	}
	return fx, nil
}
