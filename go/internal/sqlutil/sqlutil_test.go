package sqlutil

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/sqlc-dev/pqtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	assert.Nil(t, MapError(nil, "get user"))
	assert.ErrorIs(t, MapError(sql.ErrNoRows, "get user"), apperr.ErrNotFound)

	dup := &pq.Error{Code: "23505", Constraint: "users_email_key"}
	err := MapError(dup, "create user")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "users_email_key")

	constraint, ok := IsUniqueViolation(dup)
	assert.True(t, ok)
	assert.Equal(t, "users_email_key", constraint)

	other := errors.New("connection refused")
	assert.ErrorIs(t, MapError(other, "get user"), other)
}

func TestNullConverters(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, *FromNullUUID(ToNullUUID(&id)))
	assert.Nil(t, FromNullUUID(ToNullUUID(nil)))

	now := time.Now()
	assert.Equal(t, now, *FromSqlTime(ToSqlTime(&now)))
	assert.Nil(t, FromSqlTime(sql.NullTime{}))
}

func TestJSONColumns(t *testing.T) {
	raw, err := ToNullRawMessage(map[string]int{"rounds": 15})
	require.NoError(t, err)
	assert.True(t, raw.Valid)

	var out map[string]int
	require.NoError(t, FromNullRawMessage(raw, &out))
	assert.Equal(t, 15, out["rounds"])

	empty, err := ToNullRawMessage(nil)
	require.NoError(t, err)
	assert.False(t, empty.Valid)
	assert.NoError(t, FromNullRawMessage(pqtype.NullRawMessage{}, &out))
}
