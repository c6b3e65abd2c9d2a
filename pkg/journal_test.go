package pkg_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defscope.dev/pkg/defscope/pkg"
)

type entry struct {
	Label string
	Count int
}

func TestJournal_AppendGetRange(t *testing.T) {
	journal, err := pkg.NewJournal[entry](t.TempDir())
	require.NoError(t, err)

	defer func() {
		require.NoError(t, journal.Close())
	}()

	assert.Equal(t, uint64(0), journal.Len())
	assert.True(t, strings.HasSuffix(journal.Path(), ".gob"))

	items := []entry{
		{Label: "first", Count: 1},
		{Label: "second", Count: 2},
		{Label: "third", Count: 3},
	}

	for _, item := range items {
		require.NoError(t, journal.Append(item))
	}

	assert.Equal(t, uint64(3), journal.Len())

	got, err := journal.Get(1)
	require.NoError(t, err)
	assert.Equal(t, items[1], got)

	var seen []entry

	err = journal.Range(func(index uint64, item entry) error {
		assert.Equal(t, uint64(len(seen)), index)
		seen = append(seen, item)

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, items, seen)
}

func TestJournal_GetOutOfBounds(t *testing.T) {
	journal, err := pkg.NewJournal[entry](t.TempDir())
	require.NoError(t, err)

	defer func() {
		require.NoError(t, journal.Close())
	}()

	_, err = journal.Get(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of bounds")
}

func TestJournal_SessionsGetDistinctFiles(t *testing.T) {
	dir := t.TempDir()

	first, err := pkg.NewJournal[entry](dir)
	require.NoError(t, err)
	require.NoError(t, first.Append(entry{Label: "a"}))
	require.NoError(t, first.Close())

	second, err := pkg.NewJournal[entry](dir)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, second.Close())
	}()

	assert.NotEqual(t, first.Path(), second.Path())
	assert.Equal(t, uint64(0), second.Len())
}

func TestJournal_RangeStopsOnCallbackError(t *testing.T) {
	journal, err := pkg.NewJournal[entry](t.TempDir())
	require.NoError(t, err)

	defer func() {
		require.NoError(t, journal.Close())
	}()

	require.NoError(t, journal.Append(entry{Label: "a"}))
	require.NoError(t, journal.Append(entry{Label: "b"}))

	calls := 0

	err = journal.Range(func(uint64, entry) error {
		calls++

		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}
