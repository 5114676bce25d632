package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("butterfly200")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("butterfly200", passwordHash))
	assert.False(t, CheckPasswordHash("breaststroke200", passwordHash))
	assert.False(t, CheckPasswordHash("butterfly200", "not-a-hash"))
}
