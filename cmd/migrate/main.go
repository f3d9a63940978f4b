package main

import (
	"log"

	"github.com/cpenseur/CSIT314-Null/internal/config"
	"github.com/cpenseur/CSIT314-Null/internal/db"
	"github.com/cpenseur/CSIT314-Null/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()

	database, err := db.InitPostgresORM(cfg.Database.DSN())
	if err != nil {
		logging.Fatal("connect database", "error", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		logging.Fatal("run migrations", "error", err)
	}

	logging.Info("migrations applied")
}
