package testkit

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
)

// Suite owns the test infrastructure (Postgres and Redis) for the whole
// integration run. Instances come from containers unless the corresponding
// external override is set in the environment.
type Suite struct {
	mu    sync.Mutex
	cfg   Config
	pg    *PostgresInstance
	redis *RedisInstance
	ready bool
}

var (
	globalSuite *Suite
	globalOnce  sync.Once
)

// Global returns the singleton Suite instance.
func Global() *Suite {
	globalOnce.Do(func() {
		globalSuite = &Suite{cfg: LoadConfig()}
	})
	return globalSuite
}

// Setup brings up both instances. A second Setup without an intervening
// Shutdown is an error.
func (s *Suite) Setup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return fmt.Errorf("suite already set up; call Shutdown first")
	}

	pg, err := StartPostgres(ctx, &s.cfg)
	if err != nil {
		return fmt.Errorf("setup postgres: %w", err)
	}

	rdb, err := StartRedis(ctx, &s.cfg)
	if err != nil {
		if !s.cfg.KeepContainers {
			_ = pg.Terminate(ctx)
		}
		return fmt.Errorf("setup redis: %w", err)
	}

	s.pg, s.redis, s.ready = pg, rdb, true
	return nil
}

// Shutdown terminates all containers unless KEEP_CONTAINERS is set.
func (s *Suite) Shutdown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return
	}
	s.ready = false

	if s.cfg.KeepContainers {
		fmt.Println("KEEP_CONTAINERS=true — skipping container cleanup")
		fmt.Println("  Postgres DSN:", s.pg.DSN())
		fmt.Println("  Redis Addr:", s.redis.Addr())
		return
	}

	if err := s.redis.Terminate(ctx); err != nil {
		fmt.Println("warning: failed to terminate redis container:", err)
	}
	if err := s.pg.Terminate(ctx); err != nil {
		fmt.Println("warning: failed to terminate postgres container:", err)
	}
}

// PostgresDSN returns the connection string for the test Postgres database.
func (s *Suite) PostgresDSN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pg == nil {
		return ""
	}
	return s.pg.DSN()
}

// RedisAddr returns the host:port address for the test Redis instance.
func (s *Suite) RedisAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.redis == nil {
		return ""
	}
	return s.redis.Addr()
}

// Run sets up the suite, calls optional afterSetup callbacks (e.g. for
// running migrations), executes tests, then shuts down. Intended for TestMain.
func (s *Suite) Run(m *testing.M, afterSetup ...func() error) {
	ctx := context.Background()

	if err := s.Setup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "integration test setup failed: %v\n", err)
		os.Exit(1)
	}

	for _, fn := range afterSetup {
		if err := fn(); err != nil {
			fmt.Fprintf(os.Stderr, "afterSetup callback failed: %v\n", err)
			s.Shutdown(ctx)
			os.Exit(1)
		}
	}

	code := m.Run()

	s.Shutdown(ctx)
	os.Exit(code)
}

// Run is a package-level convenience that delegates to Global().Run.
func Run(m *testing.M, afterSetup ...func() error) {
	Global().Run(m, afterSetup...)
}
