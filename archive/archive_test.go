package archive

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
)

func openTemp(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func book(t *testing.T, salary float64) finance.Book {
	t.Helper()
	b, _, err := finance.NewBook().RecordTransaction(finance.Income, date.MustParse("2025-01-31"), "Salary", finance.M(salary))
	assert.NoError(t, err)
	return b
}

func TestArchive_Empty(t *testing.T) {
	a := openTemp(t)

	entries, err := a.List()
	assert.NoError(t, err)
	assert.Equal(t, 0, len(entries))

	_, _, err = a.Latest()
	assert.True(t, errors.Is(err, ErrNotFound))

	_, _, err = a.Get(1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestArchive_PutGetLatest(t *testing.T) {
	a := openTemp(t)
	t1 := time.Date(2025, time.February, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	first, err := a.Put(book(t, 1000), t1)
	assert.NoError(t, err)
	assert.Equal(t, Entry{Seq: 1, SavedAt: t1, Transactions: 1}, first)

	second := book(t, 2000)
	second, _, err = second.Buy("aapl", finance.Q(2), finance.M(10), date.MustParse("2025-02-01"))
	assert.NoError(t, err)
	e2, err := a.Put(second, t2)
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), e2.Seq)

	entries, err := a.List()
	assert.NoError(t, err)
	assert.Equal(t, []Entry{
		{Seq: 1, SavedAt: t1, Transactions: 1},
		{Seq: 2, SavedAt: t2, Transactions: 1, Investments: 1},
	}, entries)

	got, entry, err := a.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), entry.Seq)
	assert.True(t, got.Ledger.TotalBalance().Equal(finance.M(1000)))

	latest, entry, err := a.Latest()
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), entry.Seq)
	assert.True(t, latest.Equal(second), "latest snapshot differs from the archived book")
}

func TestArchive_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	a, err := Open(path)
	assert.NoError(t, err)
	_, err = a.Put(book(t, 1000), time.Now())
	assert.NoError(t, err)
	assert.NoError(t, a.Close())

	a, err = Open(path)
	assert.NoError(t, err)
	defer a.Close()
	e, err := a.Put(book(t, 500), time.Now())
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), e.Seq)
}
