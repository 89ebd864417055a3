package main

import (
	"context"
	"flag"
	"log"

	"voice-todo/internal/config"
	"voice-todo/internal/logger"
	"voice-todo/internal/model"
	"voice-todo/internal/service"
)

func main() {
	configFile := flag.String("config", "", "config file")
	user := flag.String("user", "", "username to create or reset")
	password := flag.String("password", "", "password for -user")
	name := flag.String("name", "", "display name for -user (defaults to username)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	if !cfg.DatabaseEnabled() {
		log.Fatal("no database configured (set MYSQL_HOST or database.host)")
	}
	db, err := cfg.OpenGormDB()
	if err != nil {
		log.Fatal(err)
	}

	// Step 1: schema
	if err := db.AutoMigrate(&model.Account{}, &model.ActionLog{}); err != nil {
		log.Fatal("migrate failed: ", err)
	}
	logger.Info("migrate: schema ready", "tables", []string{model.Account{}.TableName(), model.ActionLog{}.TableName()})

	// Step 2: optional user
	if *user != "" {
		if *password == "" {
			log.Fatal("-password is required with -user")
		}
		a, err := service.NewAuthService(db).Upsert(context.Background(), *user, *password, *name)
		if err != nil {
			log.Fatal("user upsert failed: ", err)
		}
		logger.Info("migrate: user ready", "id", a.ID, "username", a.Username)
	}

	logger.Info("=== all done ===")
}
