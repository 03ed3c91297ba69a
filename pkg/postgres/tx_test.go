package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) Commit(context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if f.committed {
		return pgx.ErrTxClosed
	}
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx   *fakeTx
	opts pgx.TxOptions
	err  error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	b.opts = opts
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db := &fakeBeginner{tx: &fakeTx{}}
		err := WithTransaction(ctx, db, func(pgx.Tx) error { return nil })
		require.NoError(t, err)
		assert.True(t, db.tx.committed)
		assert.False(t, db.tx.rolledBack)
		assert.Equal(t, pgx.ReadCommitted, db.opts.IsoLevel)
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		db := &fakeBeginner{tx: &fakeTx{}}
		boom := errors.New("boom")
		err := WithTransaction(ctx, db, func(pgx.Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.True(t, db.tx.rolledBack)
		assert.False(t, db.tx.committed)
	})

	t.Run("rolls back when commit fails", func(t *testing.T) {
		db := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
		err := WithTransaction(ctx, db, func(pgx.Tx) error { return nil })
		assert.ErrorContains(t, err, "commit tx")
		assert.True(t, db.tx.rolledBack)
	})

	t.Run("begin failure", func(t *testing.T) {
		db := &fakeBeginner{err: errors.New("pool closed")}
		called := false
		err := WithTransaction(ctx, db, func(pgx.Tx) error { called = true; return nil })
		assert.ErrorContains(t, err, "begin tx")
		assert.False(t, called)
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		db := &fakeBeginner{tx: &fakeTx{}}
		assert.Panics(t, func() {
			_ = WithTransaction(ctx, db, func(pgx.Tx) error { panic("bad") })
		})
		assert.True(t, db.tx.rolledBack)
	})
}
