package main

import (
	"epicerie_commerce/internal/api/initsvc"
	"epicerie_commerce/internal/logger"
)

func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("Starting InitDefaultData...")

	initService, err := initsvc.NewInitService()
	if err != nil {
		log.Fatalf("Failed to initialize init service: %v", err)
	}

	// Seed tài khoản admin đầu tiên nếu database chưa có admin
	if err := initService.InitAdminUser(); err != nil {
		log.Fatalf("Failed to initialize admin user: %v", err)
	}

	log.Info("InitDefaultData completed successfully")
}
