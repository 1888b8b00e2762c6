// consumes generation jobs from kafka
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/hunny44/memegeneratorAI/config"
	"github.com/hunny44/memegeneratorAI/internal/appServer"
	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/hunny44/memegeneratorAI/internal/pkg/kafka"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}
	// воркер без брокера не имеет смысла
	cfg.Kafka.Enabled = true

	components, err := appServer.Build(cfg)
	if err != nil {
		logrus.Fatalf("error occured while building components: %s", err.Error())
	}
	defer components.Close()
	if components.Jobs == nil {
		components.Close()
		logrus.Fatalf("kafka brokers %v are unreachable", cfg.Kafka.Brokers)
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.JobsTopic, cfg.Kafka.GroupID)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = consumer.Run(ctx, func(ctx context.Context, value []byte) error {
		var task entity.JobTask
		if err := json.Unmarshal(value, &task); err != nil {
			return err
		}

		log := logrus.WithField("job_id", task.JobID)
		log.Info("Processing generation job")
		if err := components.Jobs.Process(ctx, task); err != nil {
			log.Errorf("Generation job failed: %v", err)
		}
		return nil
	})
	if err != nil {
		logrus.Errorf("consumer stopped with error: %s", err.Error())
	}
}
