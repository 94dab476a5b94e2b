package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v2"

	"heartguard/db"
	hghttp "heartguard/http"
	"heartguard/logging"
	"heartguard/monitoring"
	"heartguard/predict"
	"heartguard/report"
)

type Config struct {
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Model struct {
		Dir string `yaml:"dir"`
	} `yaml:"model"`
	Log logging.Config `yaml:"log"`
	Training struct {
		DataPath  string  `yaml:"data_path"`
		Trees     int     `yaml:"trees"`
		MaxDepth  int     `yaml:"max_depth"`
		Seed      int64   `yaml:"seed"`
		TestRatio float64 `yaml:"test_ratio"`
	} `yaml:"training"`
	Report struct {
		CacheSize int `yaml:"cache_size"`
	} `yaml:"report"`
}

func main() {
	// The zap logger does not exist yet at this point; bootstrap
	// failures report through the stdlib logger so they stay visible.
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logging.Init(config.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Sync()

	if err := db.InitDB(config.Database.Path); err != nil {
		logging.L().Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()
	logging.L().Infof("database initialized at %s", config.Database.Path)

	// The server starts even without trained artifacts: the form stays
	// reachable and /api/assess explains how to train. The watcher
	// picks the artifacts up as soon as training writes them.
	service := predict.NewService(nil)
	if mc, err := predict.LoadModelContext(config.Model.Dir); err != nil {
		logging.L().Warnf("no model loaded: %v", err)
	} else {
		service.Swap(mc)
		logging.L().Infof("model loaded (trained %s, %d trees)", mc.Meta.TrainedAt.Format(time.RFC3339), mc.Meta.Trees)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := os.MkdirAll(config.Model.Dir, 0o755); err != nil {
		logging.L().Fatalf("failed to create model dir: %v", err)
	}
	go func() {
		if err := predict.WatchArtifacts(ctx, config.Model.Dir, service); err != nil && err != context.Canceled {
			logging.L().Warnf("artifact watcher stopped: %v", err)
		}
	}()

	hub := monitoring.NewHub()
	go hub.Start()

	cacheSize := config.Report.CacheSize
	if cacheSize <= 0 {
		cacheSize = 128
	}
	reportCache, err := report.NewCache(cacheSize)
	if err != nil {
		logging.L().Fatalf("failed to create report cache: %v", err)
	}

	hghttp.SetService(service)
	hghttp.SetHub(hub)
	hghttp.SetReportCache(reportCache)
	hghttp.SetTrainingConfig(hghttp.TrainingConfig{
		DataPath:  config.Training.DataPath,
		ModelDir:  config.Model.Dir,
		Trees:     config.Training.Trees,
		MaxDepth:  config.Training.MaxDepth,
		Seed:      config.Training.Seed,
		TestRatio: config.Training.TestRatio,
	})

	serverConfig := hghttp.DefaultServerConfig()
	if config.Http.Port != 0 {
		serverConfig.Port = config.Http.Port
	}
	if config.Http.TimeoutSeconds > 0 {
		serverConfig.Timeout = time.Duration(config.Http.TimeoutSeconds) * time.Second
	}
	if len(config.Http.AllowedOrigins) > 0 {
		serverConfig.AllowedOrigins = config.Http.AllowedOrigins
	}

	server := hghttp.NewServer(serverConfig)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logging.L().Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.L().Info("shutting down...")

	if err := server.Stop(); err != nil {
		logging.L().Warnf("server forced to shutdown: %v", err)
	}
	hub.Stop()
	logging.L().Info("exiting")
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
