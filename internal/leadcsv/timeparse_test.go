package leadcsv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreatedTimeMetaFormat(t *testing.T) {
	got := ParseCreatedTime("2025-08-06 23:56:22(UTC-06:00)")
	require.NotNil(t, got)

	want, err := time.Parse(time.RFC3339, "2025-08-06T23:56:22-06:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestParseCreatedTimeMetaFormatWithT(t *testing.T) {
	got := ParseCreatedTime("2025-08-06T23:56:22(UTC+02:00)")
	require.NotNil(t, got)

	want, _ := time.Parse(time.RFC3339, "2025-08-06T23:56:22+02:00")
	assert.True(t, got.Equal(want))
}

func TestParseCreatedTimeFallbacks(t *testing.T) {
	assert.NotNil(t, ParseCreatedTime("2025-08-06T23:56:22Z"))
	assert.NotNil(t, ParseCreatedTime("2025-08-06 23:56:22"))
	assert.NotNil(t, ParseCreatedTime("2025-08-06"))
}

func TestParseCreatedTimeInvalid(t *testing.T) {
	assert.Nil(t, ParseCreatedTime(""))
	assert.Nil(t, ParseCreatedTime("   "))
	assert.Nil(t, ParseCreatedTime("not-a-date"))
	assert.Nil(t, ParseCreatedTime("2025-13-40 99:99:99(UTC-06:00)"))
}
