package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "ongfinder/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correta123")
	require.NoError(t, err)
	require.NotEqual(t, "correta123", hash)

	assert.NoError(t, Verify("correta123", hash))

	err = Verify("errada456", hash)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestHashRejectsShortPasswords(t *testing.T) {
	for _, pw := range []string{"", "12345"} {
		_, err := Hash(pw)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, err := Hash("mesma-senha")
	require.NoError(t, err)
	second, err := Hash("mesma-senha")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
