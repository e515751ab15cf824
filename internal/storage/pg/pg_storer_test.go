//go:build integration

package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/client-ingest/internal/domain"
	pkgtesting "github.com/DjordjeVuckovic/client-ingest/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx    context.Context
	testPool   *ConnectionPool
	testStorer *Storer
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.DefaultPGConfig())
	if err != nil {
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		_ = testcontainers.TerminateContainer(pg.Container)
		panic(err)
	}

	testStorer, err = NewStorer(testPool)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	testPool.Close()
	_ = testcontainers.TerminateContainer(pg.Container)
	os.Exit(code)
}

func truncateTable(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE clients")
	if err != nil {
		t.Fatalf("failed to truncate table: %v", err)
	}
}

func testClient(dni int64, obligated *bool) domain.Client {
	return domain.Client{
		FullName:           "Jane Doe",
		DNI:                dni,
		Status:             "ACT",
		EntryDate:          time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC),
		IsPEP:              true,
		IsObligatedSubject: obligated,
	}
}

func TestStorer_SaveBulk(t *testing.T) {
	truncateTable(t)
	defer truncateTable(t)

	no := false
	clients := []domain.Client{testClient(1, &no), testClient(2, nil), testClient(3, nil)}

	require.NoError(t, testStorer.SaveBulk(testCtx, clients))

	n, err := testStorer.Count(testCtx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	var (
		name      string
		entryDate time.Time
		obligated *bool
	)
	err = testPool.GetConn().QueryRow(testCtx,
		"SELECT full_name, entry_date, is_obligated_subject FROM clients WHERE dni = 1").
		Scan(&name, &entryDate, &obligated)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)
	assert.Equal(t, "2023-01-15", entryDate.Format(time.DateOnly))
	require.NotNil(t, obligated)
	assert.False(t, *obligated)

	err = testPool.GetConn().QueryRow(testCtx,
		"SELECT is_obligated_subject FROM clients WHERE dni = 2").Scan(&obligated)
	require.NoError(t, err)
	assert.Nil(t, obligated)
}

func TestStorer_SaveBulkIsAllOrNothing(t *testing.T) {
	truncateTable(t)
	defer truncateTable(t)

	bad := testClient(2, nil)
	bad.Status = "THIS_STATUS_IS_TOO_LONG"

	err := testStorer.SaveBulk(testCtx, []domain.Client{testClient(1, nil), bad})
	require.Error(t, err)

	n, err := testStorer.Count(testCtx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStorer_SaveBulkEmpty(t *testing.T) {
	assert.NoError(t, testStorer.SaveBulk(testCtx, nil))
}

func TestHealthChecker(t *testing.T) {
	exists, err := testPool.ClientsTableExists(testCtx)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.True(t, NewHealthChecker(testPool).Healthy(testCtx))
	assert.False(t, NewHealthChecker(nil).Healthy(testCtx))
}
