package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "medgate/pkg/domain-errors"
)

func TestParseSubjectID(t *testing.T) {
	t.Run("accepts opaque external ids", func(t *testing.T) {
		id, err := ParseSubjectID("mpi:patient/42-ab")
		require.NoError(t, err)
		assert.Equal(t, "mpi:patient/42-ab", id.String())
		assert.False(t, id.IsNil())
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseSubjectID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects whitespace", func(t *testing.T) {
		_, err := ParseSubjectID("patient 1")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects oversized ids", func(t *testing.T) {
		_, err := ParseSubjectID(strings.Repeat("x", maxIDLen+1))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestParseEnums(t *testing.T) {
	t.Run("role allowlist", func(t *testing.T) {
		for _, v := range []string{"patient", "clinician", "administrator"} {
			r, err := ParseRole(v)
			require.NoError(t, err)
			assert.True(t, r.IsValid())
		}
		_, err := ParseRole("superuser")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("status allowlist", func(t *testing.T) {
		_, err := ParseSubjectStatus("active")
		require.NoError(t, err)
		_, err = ParseSubjectStatus("deleted")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("action allowlist", func(t *testing.T) {
		_, err := ParseAction("export")
		require.NoError(t, err)
		_, err = ParseAction("delete")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("category slug", func(t *testing.T) {
		c, err := ParseCategory("lab_results")
		require.NoError(t, err)
		assert.Equal(t, "lab_results", c.String())
		_, err = ParseCategory("Lab Results")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
