// entry point to the HTTP API
package main

import (
	"github.com/hunny44/memegeneratorAI/config"
	"github.com/hunny44/memegeneratorAI/internal/appServer"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"addr":           cfg.Server.Address(),
		"text_platform":  cfg.App.TextPlatform,
		"image_platform": cfg.App.ImagePlatform,
		"kafka":          cfg.Kafka.Enabled,
		"redis":          cfg.Redis.Enabled,
	}).Info("Config loaded")

	appServer.NewServer(cfg)
}
