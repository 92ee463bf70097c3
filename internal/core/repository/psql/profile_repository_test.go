package psql

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/duynhne/directory-service/internal/core/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Integration tests run against a real PostgreSQL started by testcontainers-go.
//
//   GO_TEST_INTEGRATION=1 go test ./internal/core/repository/psql -v -count=1

func startPostgres(t *testing.T) *ProfileRepository {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "docker.io/postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// The listening port opens before the init scripts finish, so retry the first ping.
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.Eventually(t, func() bool { return pool.Ping(ctx) == nil }, 30*time.Second, 250*time.Millisecond)

	repo := NewProfileRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx, true))
	return repo
}

func TestIntegration_CreateGetDelete(t *testing.T) {
	repo := startPostgres(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Profile{
		Name: "Asha", Email: "asha@example.com", Phone: "123", Work: []string{"Cook", "Maid"}, City: "Pune",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, []string{"Cook", "Maid"}, created.Work)
	require.WithinDuration(t, time.Now(), created.CreatedAt, time.Minute)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Name, got.Name)
	require.Equal(t, created.Work, got.Work)

	exists, err := repo.EmailExists(ctx, "asha@example.com")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
	require.ErrorIs(t, repo.Delete(ctx, created.ID), domain.ErrProfileNotFound)
}

func TestIntegration_MalformedIDIsNotFound(t *testing.T) {
	repo := startPostgres(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrProfileNotFound)

	name := "x"
	_, err = repo.Update(ctx, "not-a-uuid", domain.ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestIntegration_UniqueEmail(t *testing.T) {
	repo := startPostgres(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Profile{Name: "A", Email: "a@b.com", Phone: "1", Work: []string{"Cook"}})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Profile{Name: "B", Email: "a@b.com", Phone: "2", Work: []string{"Cook"}})
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	// Profiles without an email never collide.
	_, err = repo.Create(ctx, &domain.Profile{Name: "C", Phone: "3", Work: []string{"Cook"}})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Profile{Name: "D", Phone: "4", Work: []string{"Cook"}})
	require.NoError(t, err)
}

func TestIntegration_Update(t *testing.T) {
	repo := startPostgres(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Profile{Name: "Asha", Phone: "123", Work: []string{"Cook"}, City: "Pune"})
	require.NoError(t, err)

	name := "Asha Rao"
	updated, err := repo.Update(ctx, created.ID, domain.ProfileUpdate{Name: &name, Work: []string{"Maid"}})
	require.NoError(t, err)
	require.Equal(t, "Asha Rao", updated.Name)
	require.Equal(t, []string{"Maid"}, updated.Work)
	require.Equal(t, "Pune", updated.City)
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestIntegration_ListFiltersAndPages(t *testing.T) {
	repo := startPostgres(t)
	ctx := context.Background()

	for _, p := range []domain.Profile{
		{Name: "Ravi", Phone: "1", Work: []string{"Plumber", "Electrician"}, City: "Pune"},
		{Name: "Sunil", Phone: "2", Work: []string{"Plumber"}, City: "Nashik"},
		{Name: "Meena", Phone: "3", Work: []string{"Cook"}, City: "Pune"},
		{Name: "100%_real", Phone: "4", Work: []string{"Driver"}},
	} {
		_, err := repo.Create(ctx, &p)
		require.NoError(t, err)
	}

	plumbers := domain.Predicate{{{Field: domain.FieldWork, Substring: "plumb"}}}
	profiles, total, err := repo.List(ctx, domain.ListQuery{Predicate: plumbers, Page: 1, Limit: 1})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, profiles, 1)
	require.Equal(t, "Sunil", profiles[0].Name)

	profiles, _, err = repo.List(ctx, domain.ListQuery{Predicate: plumbers, Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Equal(t, "Ravi", profiles[0].Name)

	puneCooks := domain.Predicate{
		{{Field: domain.FieldCity, Substring: "PUNE"}},
		{{Field: domain.FieldWork, Substring: "cook"}},
	}
	profiles, total, err = repo.List(ctx, domain.ListQuery{Predicate: puneCooks, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Meena", profiles[0].Name)

	// LIKE wildcards in the search text are literal.
	_, total, err = repo.List(ctx, domain.ListQuery{
		Predicate: domain.Predicate{{{Field: domain.FieldName, Substring: "0%_"}}},
		Page:      1, Limit: 10,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	profiles, total, err = repo.List(ctx, domain.ListQuery{Page: 9, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 4, total)
	require.Empty(t, profiles)

	types, err := repo.WorkTypes(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Cook", "Driver", "Electrician", "Plumber"}, types)
}
