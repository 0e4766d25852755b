package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTransaction(t *testing.T) {
	fnErr := errors.New("function failed")
	beginErr := errors.New("begin transaction failed")
	commitErr := errors.New("commit failed")
	rollbackErr := errors.New("rollback failed")

	tests := []struct {
		name        string
		expect      func(mock sqlmock.Sqlmock)
		fn          TxFn
		wantErrIs   []error
		wantErrText []string
	}{
		{
			name: "commit on success",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, tx *sql.Tx) error { return nil },
		},
		{
			name: "rollback on function error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:        func(ctx context.Context, tx *sql.Tx) error { return fnErr },
			wantErrIs: []error{fnErr},
		},
		{
			name: "begin fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(beginErr)
			},
			fn:          func(ctx context.Context, tx *sql.Tx) error { return nil },
			wantErrIs:   []error{beginErr},
			wantErrText: []string{"failed to begin transaction"},
		},
		{
			name: "commit fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(commitErr)
			},
			fn:          func(ctx context.Context, tx *sql.Tx) error { return nil },
			wantErrIs:   []error{commitErr, ErrTransactionFailed},
			wantErrText: []string{"failed to commit transaction"},
		},
		{
			name: "rollback fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(rollbackErr)
			},
			fn:          func(ctx context.Context, tx *sql.Tx) error { return fnErr },
			wantErrIs:   []error{fnErr},
			wantErrText: []string{"error rolling back transaction", "rollback failed", "original error"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tc.expect(mock)

			err = RunInTransaction(context.Background(), db, tc.fn)
			if len(tc.wantErrIs) == 0 && len(tc.wantErrText) == 0 {
				assert.NoError(t, err)
			}
			for _, target := range tc.wantErrIs {
				assert.ErrorIs(t, err, target)
			}
			for _, text := range tc.wantErrText {
				assert.ErrorContains(t, err, text)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_PanicRollsBack(t *testing.T) {
	for _, rollbackErr := range []error{nil, errors.New("rollback failed")} {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(rollbackErr)

		assert.PanicsWithValue(t, "test panic", func() {
			_ = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
				panic("test panic")
			})
		})

		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	}
}

func TestOnCommit(t *testing.T) {
	t.Run("runs immediately outside a transaction", func(t *testing.T) {
		ran := false
		OnCommit(context.Background(), func(ctx context.Context) { ran = true })
		assert.True(t, ran)
	})

	t.Run("deferred until commit and run in order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectCommit()

		var order []string
		err = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			OnCommit(ctx, func(ctx context.Context) { order = append(order, "first") })
			OnCommit(ctx, func(ctx context.Context) { order = append(order, "second") })
			assert.Empty(t, order, "hooks must not run before commit")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, order)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("discarded on rollback", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectRollback()

		ran := false
		err = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			OnCommit(ctx, func(ctx context.Context) { ran = true })
			return errors.New("abort")
		})
		require.Error(t, err)
		assert.False(t, ran)
	})

	t.Run("discarded when commit fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		ran := false
		err = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			OnCommit(ctx, func(ctx context.Context) { ran = true })
			return nil
		})
		require.Error(t, err)
		assert.False(t, ran)
	})
}
