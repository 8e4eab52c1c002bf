package main

import (
	app "github.com/SuperFreelas/google-ads-gateway/internal/app/server"
	"github.com/SuperFreelas/google-ads-gateway/internal/config"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.Server.LogLevel, cfg.Server.Debug)
	app.Run(cfg)
}
