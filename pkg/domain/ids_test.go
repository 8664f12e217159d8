package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "hackhub/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseTeamID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseJudgeID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseTeamID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseTeamID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, TeamID(valid), id)
	})
}

// TestJSONRoundTrip verifies IDs serialize as UUID strings, not byte arrays.
func TestJSONRoundTrip(t *testing.T) {
	teamID := NewTeamID()

	raw, err := json.Marshal(teamID)
	require.NoError(t, err)
	assert.Equal(t, `"`+teamID.String()+`"`, string(raw))

	var decoded TeamID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, teamID, decoded)

	var invalid JudgeID
	assert.Error(t, json.Unmarshal([]byte(`"not-a-uuid"`), &invalid))
}

// TestTypeDistinction verifies the compiler enforces type safety.
func TestTypeDistinction(t *testing.T) {
	teamID := NewTeamID()
	judgeID := JudgeID(uuid.New())

	// These would fail to compile if the types were interchangeable:
	// var _ TeamID = judgeID   // compile error
	// var _ JudgeID = teamID   // compile error

	assert.NotEqual(t, uuid.UUID(teamID), uuid.UUID(judgeID))
}
