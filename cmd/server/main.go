package main

import (
	"log"

	_ "famtasks/docs"
	"famtasks/internal/config"
	"famtasks/internal/server"
)

// @title           Family Tasks API
// @version         1.0
// @description     API for managing shared tasks within a family group.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
