package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeOn(t *testing.T) {
	on := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("birthday already passed this year", func(t *testing.T) {
		age, err := AgeOn("1998-03-01", on)
		require.NoError(t, err)
		assert.Equal(t, 28, age)
	})

	t.Run("birthday later this year decrements", func(t *testing.T) {
		age, err := AgeOn("1998-09-01", on)
		require.NoError(t, err)
		assert.Equal(t, 27, age)
	})

	t.Run("birthday today counts the full year", func(t *testing.T) {
		age, err := AgeOn("1998-06-15", on)
		require.NoError(t, err)
		assert.Equal(t, 28, age)
	})

	t.Run("day before the birthday", func(t *testing.T) {
		age, err := AgeOn("1998-06-16", on)
		require.NoError(t, err)
		assert.Equal(t, 27, age)
	})

	t.Run("malformed date of birth", func(t *testing.T) {
		_, err := AgeOn("15/06/1998", on)
		require.Error(t, err)
	})
}

func TestWireFormats(t *testing.T) {
	require.NoError(t, ValidateDate("2026-04-03"))
	require.Error(t, ValidateDate("03-04-2026"))
	require.Error(t, ValidateDate(""))

	require.NoError(t, ValidateClock("08:30"))
	require.NoError(t, ValidateClock("16:05"))
	require.Error(t, ValidateClock("8:30am"))
	require.Error(t, ValidateClock(""))
}
