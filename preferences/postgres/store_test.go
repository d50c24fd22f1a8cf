package postgres_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/commercekit/stripe-gateway/config"
	"github.com/commercekit/stripe-gateway/preferences"
	"github.com/commercekit/stripe-gateway/preferences/postgres"
)

type StoreTestSuite struct {
	suite.Suite
	container testcontainers.Container
	db        *postgres.DB
	store     *postgres.Store
}

func TestStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed store tests in short mode")
	}
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupSuite() {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(s.T(), err)

	dbConfig := &config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Name:            "testdb",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := postgres.Connect(ctx, dbConfig, logger)
	require.NoError(s.T(), err)
	s.db = db

	require.NoError(s.T(), runMigrations(ctx, db))

	s.store = postgres.NewStore(db)
}

func (s *StoreTestSuite) TearDownSuite() {
	s.db.Close()
	require.NoError(s.T(), s.container.Terminate(context.Background()))
}

func (s *StoreTestSuite) SetupTest() {
	_, err := s.db.Pool.Exec(context.Background(), "TRUNCATE TABLE preferences;")
	require.NoError(s.T(), err)
}

func (s *StoreTestSuite) Test_Get_ReturnsStoredValue() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.Set(ctx, preferences.SecretKey, "sk_test_abc"))

	value, err := s.store.Get(ctx, preferences.SecretKey)
	s.Require().NoError(err)
	s.Equal("sk_test_abc", value)
}

func (s *StoreTestSuite) Test_Get_MissingPreferenceIsNotFound() {
	_, err := s.store.Get(context.Background(), "pref-"+uuid.New().String())
	s.ErrorIs(err, preferences.ErrNotFound)
}

func (s *StoreTestSuite) Test_Set_OverwritesExistingValue() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.Set(ctx, preferences.PublishableKey, "pk_old"))
	require.NoError(s.T(), s.store.Set(ctx, preferences.PublishableKey, "pk_new"))

	value, err := s.store.Get(ctx, preferences.PublishableKey)
	s.Require().NoError(err)
	s.Equal("pk_new", value)
}

func (s *StoreTestSuite) Test_Delete_RemovesPreference() {
	ctx := context.Background()

	require.NoError(s.T(), s.store.Set(ctx, preferences.SecretKey, "sk_gone"))
	require.NoError(s.T(), s.store.Delete(ctx, preferences.SecretKey))

	_, err := s.store.Get(ctx, preferences.SecretKey)
	s.ErrorIs(err, preferences.ErrNotFound)

	// deleting again is a no-op
	s.NoError(s.store.Delete(ctx, preferences.SecretKey))
}

func getProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(filepath.Dir(filename)))
}

func runMigrations(ctx context.Context, db *postgres.DB) error {
	migrationPath := filepath.Join(getProjectRoot(), "db", "migrations", "001_init.up.sql")

	migrationSQL, err := os.ReadFile(migrationPath) //nolint:gosec // test helper, controlled path
	if err != nil {
		return err
	}

	_, err = db.Pool.Exec(ctx, string(migrationSQL))
	return err
}
