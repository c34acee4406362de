package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUID(t *testing.T) {
	first := GenerateUUID()
	second := GenerateUUID()

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 8, 20, 23, 59, 59, 123456789, time.Local)

	got := StartOfDay(ts)

	assert.True(t, got.Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, ts.Location(), got.Location())
}
