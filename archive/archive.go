// Package archive keeps every saved snapshot of a book in a bbolt database,
// so that any earlier state can be listed and restored.
package archive

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/etnz/finance"
	bolt "go.etcd.io/bbolt"
)

var (
	// ErrNotFound is returned when a snapshot is not found.
	ErrNotFound = errors.New("snapshot not found")
)

// bucketSnapshots holds the envelopes keyed by sequence number.
const bucketSnapshots = "snapshots"

// Entry describes an archived snapshot.
type Entry struct {
	Seq          uint64
	SavedAt      time.Time
	Transactions int
	Investments  int
}

// envelope is the value stored for each snapshot.
type envelope struct {
	SavedAt      time.Time       `json:"savedAt"`
	Transactions int             `json:"transactions"`
	Investments  int             `json:"investments"`
	Snapshot     json.RawMessage `json:"snapshot"`
}

// Archive represents the bbolt database wrapper.
type Archive struct {
	db *bolt.DB
}

// Open opens or creates the archive at path.
func Open(path string) (*Archive, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %q: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshots)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketSnapshots, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Archive{db: db}, nil
}

// Close closes the database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Put archives book, saved at savedAt, under the next sequence number.
// Writers are serialized by the database, two concurrent Puts get distinct
// sequence numbers.
func (a *Archive) Put(book finance.Book, savedAt time.Time) (Entry, error) {
	var buf bytes.Buffer
	if err := finance.EncodeSnapshot(&buf, book, savedAt); err != nil {
		return Entry{}, err
	}
	env := envelope{
		SavedAt:      savedAt.UTC().Truncate(time.Second),
		Transactions: book.Ledger.Len(),
		Investments:  book.Portfolio.Len(),
		Snapshot:     json.RawMessage(bytes.TrimSpace(buf.Bytes())),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	var entry Entry
	err = a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		entry = env.entry(seq)
		return b.Put(itob(seq), data)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("failed to archive snapshot: %w", err)
	}
	log.Printf("snapshot archived seq=%d savedAt=%s", entry.Seq, entry.SavedAt.Format(time.RFC3339))
	return entry, nil
}

// List returns every archived snapshot, oldest first.
func (a *Archive) List() ([]Entry, error) {
	var entries []Entry
	err := a.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		return b.ForEach(func(k, v []byte) error {
			var env envelope
			if err := json.Unmarshal(v, &env); err != nil {
				return fmt.Errorf("corrupted snapshot %d: %w", btoi(k), err)
			}
			entries = append(entries, env.entry(btoi(k)))
			return nil
		})
	})
	return entries, err
}

// Get returns the snapshot seq.
func (a *Archive) Get(seq uint64) (finance.Book, Entry, error) {
	var env envelope
	err := a.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketSnapshots)).Get(itob(seq))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &env)
	})
	if err != nil {
		return finance.Book{}, Entry{}, err
	}
	return env.decode(seq)
}

// Latest returns the most recently archived snapshot.
func (a *Archive) Latest() (finance.Book, Entry, error) {
	var (
		env envelope
		seq uint64
	)
	err := a.db.View(func(tx *bolt.Tx) error {
		k, v := tx.Bucket([]byte(bucketSnapshots)).Cursor().Last()
		if k == nil {
			return ErrNotFound
		}
		seq = btoi(k)
		return json.Unmarshal(v, &env)
	})
	if err != nil {
		return finance.Book{}, Entry{}, err
	}
	return env.decode(seq)
}

func (env envelope) entry(seq uint64) Entry {
	return Entry{Seq: seq, SavedAt: env.SavedAt, Transactions: env.Transactions, Investments: env.Investments}
}

func (env envelope) decode(seq uint64) (finance.Book, Entry, error) {
	book, _, err := finance.DecodeSnapshot(bytes.NewReader(env.Snapshot))
	if err != nil {
		return finance.Book{}, Entry{}, fmt.Errorf("archived snapshot %d: %w", seq, err)
	}
	return book, env.entry(seq), nil
}

// itob converts a sequence number to a byte slice for use as a bbolt key.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btoi(b []byte) uint64 { return binary.BigEndian.Uint64(b) }
