package suite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	expireDuration  = 300
	maxWaitDuration = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "7-alpine"
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
}

// one Redis container serves every test in the binary; each test gets its own
// logical database flushed before use.
var (
	containerOnce sync.Once
	containerAddr string
	containerErr  error

	pool     *dockertest.Pool
	resource *dockertest.Resource

	dbMu   sync.Mutex
	nextDB = 1
)

func startRedis() (string, error) {
	var err error

	pool, err = dockertest.NewPool("")
	if err != nil {
		return "", err
	}

	pool.MaxWait = maxWaitDuration

	// pulls an image, creates a container based on it and runs it
	resource, err = pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
		Cmd:        []string{"redis-server", "--databases", "64"},
	}, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", err
	}

	// never returns error
	_ = resource.Expire(expireDuration) // docker hard kills the container after this many seconds

	addr := resource.GetHostPort(redisPort)

	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	if err = pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()
		return client.Ping(context.Background()).Err()
	}); err != nil {
		_ = pool.Purge(resource)
		resource = nil
		return "", err
	}

	return addr, nil
}

// Purge removes the shared Redis container, if one was started. Call it from
// TestMain after m.Run; the Expire set at start-up only covers crashed runs.
func Purge() error {
	if resource == nil {
		return nil
	}

	if err := pool.Purge(resource); err != nil {
		return fmt.Errorf("could not purge redis container: %w", err)
	}

	resource = nil

	return nil
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis backed test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	containerOnce.Do(func() {
		containerAddr, containerErr = startRedis()
	})
	if containerErr != nil {
		t.Fatalf("could not start redis: %v", containerErr)
	}

	dbMu.Lock()
	db := nextDB % 64
	nextDB++
	dbMu.Unlock()

	redisClient := redis.NewClient(&redis.Options{
		Addr: containerAddr,
		DB:   db,
	})

	if err := redisClient.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	t.Cleanup(func() {
		_ = redisClient.Close()
	})

	return ctx, &Suite{
		T:       t,
		Logger:  logger,
		Storage: redisClient,
	}
}
