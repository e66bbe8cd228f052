// Package testhelpers provides shared infrastructure for integration
// tests that need a real warehouse.
package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/datacustodian/governance-autopilot/pkg/warehouse"
)

// WarehouseTestImage is the PostgreSQL image used as the test warehouse.
const WarehouseTestImage = "postgres:16-alpine"

// TestWarehouse holds a shared test warehouse container and its
// connection details.
type TestWarehouse struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	Config    warehouse.Config
}

var (
	sharedWarehouse     *TestWarehouse
	sharedWarehouseOnce sync.Once
	sharedWarehouseErr  error
)

// GetTestWarehouse returns a shared PostgreSQL container for integration
// tests. The container is created once and reused across all tests in
// the run.
func GetTestWarehouse(t *testing.T) *TestWarehouse {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedWarehouseOnce.Do(func() {
		sharedWarehouse, sharedWarehouseErr = setupWarehouse()
	})

	if sharedWarehouseErr != nil {
		t.Fatalf("Failed to setup test warehouse: %v", sharedWarehouseErr)
	}

	return sharedWarehouse
}

func setupWarehouse() (*TestWarehouse, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        WarehouseTestImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "warehouse_test",
			"POSTGRES_USER":     "governor",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	cfg := warehouse.Config{
		Type:     "postgres",
		Host:     host,
		Port:     port.Int(),
		User:     "governor",
		Password: "test_password",
		Database: "warehouse_test",
		SSLMode:  "disable",
	}

	connStr := fmt.Sprintf("postgres://governor:test_password@%s:%d/warehouse_test?sslmode=disable",
		host, port.Int())

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection with retry
	for i := 0; i < 10; i++ {
		if err := pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	return &TestWarehouse{
		Container: container,
		Pool:      pool,
		Config:    cfg,
	}, nil
}

// MustExec runs a setup statement directly against the container,
// bypassing the session under test.
func (w *TestWarehouse) MustExec(t *testing.T, sqlStatement string) {
	t.Helper()
	if _, err := w.Pool.Exec(context.Background(), sqlStatement); err != nil {
		t.Fatalf("setup statement failed: %v\n%s", err, sqlStatement)
	}
}
