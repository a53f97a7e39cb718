package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_Nil(t *testing.T) {
	br := BaseRepository{}
	assert.NoError(t, br.HandleError("get", "user", "alice", nil))
}

func TestHandleError_NoRowsBecomesNotFound(t *testing.T) {
	br := BaseRepository{}
	err := br.HandleError("get", "user", "alice", sql.ErrNoRows)

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "user with ID alice not found")
}

func TestHandleError_WrapsOtherErrors(t *testing.T) {
	br := BaseRepository{}
	cause := errors.New("connection refused")
	err := br.HandleError("upsert", "product summary", "some-url", cause)

	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.ErrorIs(t, err, cause)

	var re *RepositoryError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "upsert", re.Operation)
	assert.Equal(t, "product summary", re.Entity)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&NotFoundError{Entity: "user", ID: "alice"}))
	assert.False(t, IsNotFound(errors.New("something else")))
	assert.False(t, IsNotFound(nil))
}

func TestWithTimeout(t *testing.T) {
	br := BaseRepository{}
	ctx, cancel := br.WithTimeout(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(defaultQueryTimeout), deadline, time.Second)
}
