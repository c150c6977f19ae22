package main

import (
	"log"

	"github.com/bandmate/bandmate/config"
	"github.com/bandmate/bandmate/db"
	"github.com/bandmate/bandmate/server"
	"github.com/bandmate/bandmate/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)
	profileRepo := db.NewProfileRepo(gormDB)
	connectionRepo := db.NewConnectionRepo(gormDB)
	messageRepo := db.NewMessageRepo(gormDB)

	connectionService := services.NewConnectionService(connectionRepo, conf)
	messageService := services.NewMessageService(messageRepo, connectionRepo, conf)

	s := &server.Server{
		Config:               conf,
		ProfileRepository:    profileRepo,
		ConnectionRepository: connectionRepo,
		MessageRepository:    messageRepo,
		ConnectionService:    connectionService,
		MessageService:       messageService,
		DB:                   *gormDB,
	}

	s.Start()
}
