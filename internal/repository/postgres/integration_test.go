//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/securo/securo-server/internal/model"
	repo "github.com/securo/securo-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "securo_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/securo_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	t.Run("master_repository", func(t *testing.T) {
		mr := repo.NewMasterRepository(conn)

		_, err := mr.Get(ctx)
		require.ErrorIs(t, err, model.ErrNotInitialized)

		require.NoError(t, mr.Create(ctx, model.MasterCredential{PasswordHash: []byte("bcrypt-hash")}))

		got, err := mr.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, []byte("bcrypt-hash"), got.PasswordHash)
		require.False(t, got.CreatedAt.IsZero())

		err = mr.Create(ctx, model.MasterCredential{PasswordHash: []byte("other")})
		require.ErrorIs(t, err, model.ErrAlreadyInitialized)
	})

	t.Run("entry_repository", func(t *testing.T) {
		er := repo.NewEntryRepository(conn)

		e := model.Entry{
			ID:              uuid.New(),
			Service:         "github",
			Email:           "a@b.com",
			EncryptedSecret: []byte("ciphertext"),
			Category:        "General",
			Strength:        100,
		}
		saved, err := er.Create(ctx, e)
		require.NoError(t, err)
		require.Equal(t, e.ID, saved.ID)
		require.False(t, saved.CreatedAt.IsZero())

		dup := e
		dup.ID = uuid.New()
		_, err = er.Create(ctx, dup)
		require.ErrorIs(t, err, model.ErrDuplicateService)

		got, err := er.GetByService(ctx, "github")
		require.NoError(t, err)
		require.Equal(t, []byte("ciphertext"), got.EncryptedSecret)

		rotated, err := er.RotateSecret(ctx, "github", []byte("new-ciphertext"), 85)
		require.NoError(t, err)
		require.Equal(t, []byte("new-ciphertext"), rotated.EncryptedSecret)
		require.Equal(t, 85, rotated.Strength)
		require.True(t, rotated.UpdatedAt.After(saved.UpdatedAt))

		list, err := er.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "github", list[0].Service)

		found, err := er.Search(ctx, "HUB")
		require.NoError(t, err)
		require.Len(t, found, 1)

		none, err := er.Search(ctx, "gitlab")
		require.NoError(t, err)
		require.Empty(t, none)

		all, err := er.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Equal(t, []byte("new-ciphertext"), all[0].EncryptedSecret)

		require.NoError(t, er.Delete(ctx, "github"))
		require.ErrorIs(t, er.Delete(ctx, "github"), model.ErrNotFound)

		_, err = er.GetByService(ctx, "github")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("access_log_repository", func(t *testing.T) {
		ar := repo.NewAccessLogRepository(conn)

		require.NoError(t, ar.Create(ctx, model.AccessLogEntry{Service: "github"}))
		require.NoError(t, ar.Create(ctx, model.AccessLogEntry{Service: "github"}))

		entries, err := ar.GetByService(ctx, "github")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, "github", entries[0].Service)
		require.False(t, entries[0].AccessedAt.IsZero())
	})
}

func TestEntryRepository_DuplicateServiceDifferentEmail(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	er := repo.NewEntryRepository(conn)

	first, err := er.Create(ctx, model.Entry{
		Service: "mail", Email: "first@example.com", EncryptedSecret: []byte("c1"), Category: "General", Strength: 90,
	})
	require.NoError(t, err)

	// Same service under another email is allowed; lookups resolve to the
	// oldest row.
	_, err = er.Create(ctx, model.Entry{
		Service: "mail", Email: "second@example.com", EncryptedSecret: []byte("c2"), Category: "General", Strength: 90,
	})
	require.NoError(t, err)

	got, err := er.GetByService(ctx, "mail")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, "first@example.com", got.Email)
}
