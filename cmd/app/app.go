package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/adarshamigo11/task-portal/internal/api"
	"github.com/adarshamigo11/task-portal/internal/config"
	"github.com/adarshamigo11/task-portal/internal/db"
	"github.com/adarshamigo11/task-portal/internal/logger"
	"github.com/adarshamigo11/task-portal/internal/repository"
	"github.com/adarshamigo11/task-portal/internal/repository/dao"
	"github.com/adarshamigo11/task-portal/internal/store"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	persister, err := openPersister(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize storage -> %w", err)
	}

	st := store.Open(context.Background(), persister)

	s := api.NewServer(conf, st)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

// openPersister picks the slot backend for the state document: a local file
// in dev, Postgres otherwise.
func openPersister(conf *config.AppConfig) (store.Persister, error) {
	if conf.Storage.Driver == "file" {
		return repository.NewStateRepository(dao.NewFileStateDAO(conf.Storage.Path)), nil
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL != "" {
		gormDB, err := db.OpenPostgresWithURL(dbURL)
		if err != nil {
			return nil, err
		}
		return repository.NewStateRepository(dao.NewStateDAO(gormDB)), nil
	}

	gormDB, err := db.OpenPostgres(conf.Postgres)
	if err != nil {
		return nil, err
	}

	return repository.NewStateRepository(dao.NewStateDAO(gormDB)), nil
}
