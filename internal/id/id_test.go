package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate("usage")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	id, err := Generate("usage")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "usage-"))

	// NanoID default is 21 characters after the prefix and hyphen.
	nanoidPart := strings.TrimPrefix(id, "usage-")
	assert.Len(t, nanoidPart, 21)

	// NanoID alphabet is A-Za-z0-9_-.
	for _, char := range nanoidPart {
		assert.True(t,
			(char >= 'A' && char <= 'Z') ||
				(char >= 'a' && char <= 'z') ||
				(char >= '0' && char <= '9') ||
				char == '_' || char == '-',
			"Character %c should be URL-safe", char)
	}
}

func TestMustGenerate(t *testing.T) {
	id := MustGenerate("usage")

	assert.True(t, strings.HasPrefix(id, "usage-"))
	assert.Equal(t, len("usage")+1+21, len(id))
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Generate("usage")
	}
}
