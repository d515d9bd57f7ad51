package jobs

import (
	"venue-crm/core/logger"

	"github.com/hibiken/asynq"
)

// Task type names routed through asynq.
const (
	TypeCSVImport    = "dataio:import"
	TypeCSVExport    = "dataio:export"
	TypeCalendarSync = "calendar:sync"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func redisOpt(cfg RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient builds the asynq producer used to enqueue background tasks.
func NewClient(cfg RedisConfig) *asynq.Client {
	return asynq.NewClient(redisOpt(cfg))
}

// NewServer builds the asynq consumer. Handlers are registered on the
// returned mux by each module.
func NewServer(cfg RedisConfig) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 5,
		},
	})
	mux := asynq.NewServeMux()
	return srv, mux
}

// Start runs the worker in a background goroutine.
func Start(srv *asynq.Server, mux *asynq.ServeMux) {
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Error("Jobs:Worker:Error", "error", err)
		}
	}()
}
