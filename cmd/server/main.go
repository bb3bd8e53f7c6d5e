package main

import (
	"os"

	"taskboard/internal/cli"
)

// @title           Taskboard API
// @version         1.0
// @description     Kanban boards with WIP limits, sprints and a penalty wallet.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
