package main

import (
	"flag"

	"github.com/polyforge/scenekit/builder"
	"github.com/polyforge/scenekit/config"
	"github.com/polyforge/scenekit/logger"
	"github.com/polyforge/scenekit/web"
)

func main() {
	var addr, configPath string
	flag.StringVar(&addr, "i", "", "Address of server (overrides config)")
	flag.StringVar(&configPath, "config", "", "Path to yaml config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Init("info", "")
		logger.Sugar.Fatalf("config: %v", err)
	}
	if addr != "" {
		cfg.Addr = addr
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.File)
	defer logger.Sync()

	store := web.NewSceneStore()
	if demo, err := builder.VectorExplorerScene(); err != nil {
		logger.Sugar.Warnf("vector explorer scene: %v", err)
	} else {
		store.Put(demo)
		logger.Sugar.Infow("demo scene ready", "id", demo.ID, "nodes", demo.NodeCount())
	}

	if err := web.StartServer(cfg.Addr, cfg, store); err != nil {
		logger.Sugar.Fatalf("server: %v", err)
	}
}
