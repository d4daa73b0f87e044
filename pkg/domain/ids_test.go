package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "daystar/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant: IDs must be
// valid, non-empty, non-nil UUIDs.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseChildID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseChildID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseChildID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseChildID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, ChildID(valid), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety between
// aggregate IDs. If this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	childID := ChildID(uuid.New())
	babysitterID := BabysitterID(uuid.New())

	// These would fail to compile if the types were interchangeable:
	// var _ ChildID = babysitterID
	// var _ BabysitterID = childID

	assert.NotEqual(t, uuid.UUID(childID), uuid.UUID(babysitterID))
}

func TestJSONRoundTrip(t *testing.T) {
	original := NewAttendanceID()

	raw, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+original.String()+`"`, string(raw))

	var decoded AttendanceID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)
}
