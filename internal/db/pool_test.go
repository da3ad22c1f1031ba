package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "incidents", []string{"a", "b"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"incidents"}, []string{"category", "x", "y"}).WillReturnResult(3)

	rows := [][]any{
		{"ASSAULT", -122.4, 37.7},
		{"LARCENY/THEFT", -122.5, 37.8},
		{"VANDALISM", -122.3, 37.75},
	}
	n, err := CopyFrom(context.Background(), mock, "incidents", []string{"category", "x", "y"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"incidents"}, []string{"category"}).WillReturnError(fmt.Errorf("copy failed"))

	rows := [][]any{{"ASSAULT"}}
	_, err = CopyFrom(context.Background(), mock, "incidents", []string{"category"}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO incidents")
	assert.NoError(t, mock.ExpectationsWereMet())
}
