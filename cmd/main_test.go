package main

import (
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"loan-engine/internal/config"
	"loan-engine/internal/infrastructure/logging"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeApp(t *testing.T) {
	cfg, log := initializeApp()

	assert.NotNil(t, cfg, "Config should not be nil")
	assert.NotNil(t, log, "Logger should not be nil")
	assert.Equal(t, 3, cfg.Batch.GraceDays)
}

func TestStartServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}
	logger := logging.NewLogger(config.LoggerConfig{})
	router := http.NewServeMux()

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	t.Cleanup(func() { _ = srv.Close() })

	assert.NotNil(t, srv, "Server should not be nil")
	assert.NotNil(t, serverErrors, "Server errors channel should not be nil")
	assert.NotNil(t, shutdownChan, "Shutdown channel should not be nil")
}

func TestHandleShutdown(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	cronScheduler := cron.New()
	srv := &http.Server{}
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)

	go func() {
		shutdownChan <- syscall.SIGINT
	}()

	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
}

func TestJobSettings(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		spec, timeout := jobSettings(config.BatchConfig{})
		assert.Equal(t, defaultDelinquencySchedule, spec)
		assert.Equal(t, defaultJobTimeout, timeout)
	})

	t.Run("configured duration is used as is", func(t *testing.T) {
		spec, timeout := jobSettings(config.BatchConfig{
			DelinquencyUpdateSchedule: "*/5 * * * *",
			DelinquencyUpdateTimeout:  30 * time.Minute,
		})
		assert.Equal(t, "*/5 * * * *", spec)
		assert.Equal(t, 30*time.Minute, timeout)
	})
}

func TestRabbitMQURI(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.RabbitMQConfig
		want    string
		wantErr bool
	}{
		{name: "with credentials", cfg: config.RabbitMQConfig{Host: "mq", Port: 5673, Username: "u", Password: "p"}, want: "amqp://u:p@mq:5673"},
		{name: "anonymous with default port", cfg: config.RabbitMQConfig{Host: "mq"}, want: "amqp://mq:5672"},
		{name: "missing host", cfg: config.RabbitMQConfig{}, wantErr: true},
		{name: "half credentials", cfg: config.RabbitMQConfig{Host: "mq", Username: "u"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rabbitMQURI(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewEventPublisherWithoutConnection(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	pub := newEventPublisher(&config.Config{}, nil, logger)
	assert.NotNil(t, pub)
}

func TestInitializeRedisClientDisabled(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	assert.Nil(t, initializeRedisClient(&config.Config{}, logger))
}
