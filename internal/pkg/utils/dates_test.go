package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-07-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2024-07-04T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 4, 8, 30, 0, 0, time.UTC), got)

	_, err = ParseDate("04/07/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate(" ")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseDateKeepOffset(t *testing.T) {
	got, err := ParseDateKeepOffset("2024-07-31T00:00:00+05:00")
	require.NoError(t, err)
	_, offset := got.Zone()
	assert.Equal(t, 5*60*60, offset)
	assert.Equal(t, 31, got.Day())
	assert.True(t, got.Equal(time.Date(2024, 7, 30, 19, 0, 0, 0, time.UTC)))

	opt, err := ParseOptionalDateKeepOffset(" ")
	require.NoError(t, err)
	assert.Nil(t, opt)
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalDate("2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 31, got.Day())
}

func TestNilIfBlank(t *testing.T) {
	blank, text := "  ", "Lisbon"
	assert.Nil(t, NilIfBlank(nil))
	assert.Nil(t, NilIfBlank(&blank))
	assert.Equal(t, &text, NilIfBlank(&text))
}
