// Package testutil provides helpers for repository tests backed by pgxmock.
package testutil

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/quillhub/quillhub-backend/internal/adapter/postgres"
)

// NewMockQuerier creates a pgxmock pool and a context that routes repository
// queries to it instead of a real pool.
func NewMockQuerier(t *testing.T) (context.Context, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create pgxmock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	return postgres.WithQuerier(context.Background(), mock), mock
}

// ExpectationsWereMet fails the test if the mock has unmet expectations.
func ExpectationsWereMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet pgxmock expectations: %v", err)
	}
}
