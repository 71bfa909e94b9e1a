package main

import (
	"github.com/wrose11/StadsSurr-prod/config"
	"github.com/wrose11/StadsSurr-prod/routes"
	"github.com/wrose11/StadsSurr-prod/seed"
	"github.com/wrose11/StadsSurr-prod/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	// Best-effort seed import; boot continues without seed data on failure.
	if err := seed.Load(db, cfg.SeedDir); err != nil {
		utils.Sugar.Errorf("seed import failed: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
