package storage_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rl1809/invenedu/internal/adapter/storage"
)

// getMySQLDSN returns MYSQL_DSN (an empty database) or starts a throwaway
// container. The test is skipped when neither is available.
func getMySQLDSN(t *testing.T) string {
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		return dsn
	}
	if testing.Short() {
		t.Skip("Skipping MySQL integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mysql:8.0",
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "root",
				"MYSQL_DATABASE":      "invenedu",
			},
			WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:root@tcp(%s:%s)/invenedu", host, port.Port())
}

func TestMySQLStore(t *testing.T) {
	dsn := getMySQLDSN(t)

	ctx := context.Background()
	store, err := storage.Open(ctx, storage.DialectMySQL, dsn, 10)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	defer store.Close()

	require.NoError(t, store.Migrate(ctx))
	runStoreSuite(t, store)
}
