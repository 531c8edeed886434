//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/graphqa/internal/config"
	"github.com/agenthands/graphqa/internal/driver"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	_ = godotenv.Load("../../.env")

	if os.Getenv("NEO4J_URI") == "" {
		t.Skip("Skipping integration test: NEO4J_URI not set")
	}
	cfg := config.Default()
	require.NoError(t, config.ApplyEnv(cfg))
	return cfg
}

func connect(t *testing.T, cfg *config.Config) *driver.Store {
	t.Helper()
	ctx := context.Background()

	d, err := driver.NewNeo4jDriver(ctx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database)
	require.NoError(t, err)
	store := driver.NewStore(d, nil)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

// label returns a per-run label so tests never see each other's data.
func label(t *testing.T, base string) string {
	t.Helper()
	return base + "_" + uuid.NewString()[:8]
}

func cleanup(t *testing.T, store *driver.Store, labels ...string) {
	t.Cleanup(func() {
		for _, l := range labels {
			_, _ = store.Execute(context.Background(), "MATCH (n:`"+l+"`) DETACH DELETE n", nil)
		}
	})
}
