package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestBlobStore_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		key       string
		mock      func(mock sqlmock.Sqlmock)
		wantValue []byte
		wantFound bool
		wantErr   bool
	}{
		{
			name: "found",
			key:  "calendar_u@example.com",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT value FROM calendar_blobs`).
					WithArgs("calendar_u@example.com").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"2025-6-12":[]}`)))
			},
			wantValue: []byte(`{"2025-6-12":[]}`),
			wantFound: true,
		},
		{
			name: "missing key is not an error",
			key:  "calendar_nobody@example.com",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT value FROM calendar_blobs`).
					WithArgs("calendar_nobody@example.com").
					WillReturnError(sql.ErrNoRows)
			},
			wantFound: false,
		},
		{
			name: "db error",
			key:  "calendar_u@example.com",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT value FROM calendar_blobs`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			store := NewBlobStore(db)
			value, found, err := store.Get(ctx, tt.key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantFound, found)
			require.Equal(t, tt.wantValue, value)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBlobStore_Set(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "upsert",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO calendar_blobs`).
					WithArgs("calendar_u@example.com", []byte(`{}`)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO calendar_blobs`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			store := NewBlobStore(db)
			err = store.Set(ctx, "calendar_u@example.com", []byte(`{}`))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBlobStore_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS calendar_blobs`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewBlobStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
