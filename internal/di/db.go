package di

import (
	"context"
	"fmt"

	"github.com/defval/di"
	"github.com/spf13/viper"

	"ely.by/appearance/internal/appearances"
	"ely.by/appearance/internal/db"
	"ely.by/appearance/internal/db/redis"
	"ely.by/appearance/internal/eventsubscribers"
)

// Since there are no options for selecting target backends,
// all constants in this case point to static specific implementations.
var dbDiOptions = di.Options(
	di.Provide(newRedis,
		di.As(new(appearances.AppearancesRepository)),
	),
)

func newRedis(container *di.Container, config *viper.Viper) (*redis.Redis, error) {
	config.SetDefault("storage.redis.host", "localhost")
	config.SetDefault("storage.redis.port", 6379)
	config.SetDefault("storage.redis.poolSize", 10)

	conn, err := redis.New(
		context.Background(),
		db.NewZlibEncoder(db.NewJsonSerializer()),
		fmt.Sprintf("%s:%d", config.GetString("storage.redis.host"), config.GetInt("storage.redis.port")),
		config.GetInt("storage.redis.poolSize"),
	)
	if err != nil {
		return nil, err
	}

	if err := container.Provide(func() *namedHealthChecker {
		return &namedHealthChecker{
			Name:    "redis",
			Checker: eventsubscribers.DatabaseChecker(conn),
		}
	}); err != nil {
		return nil, err
	}

	return conn, nil
}
