package main

import (
	"storeloft/config"
	"storeloft/di"
	"storeloft/shared/logger"
)

// @title StoreLoft API
// @version 1.0
// @description Storage rental marketplace backend.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
