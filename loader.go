package finance

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"
)

// LoadFile reads the snapshot file at path. If the file does not exist it
// returns fresh, a book to start with, and a zero time.
func LoadFile(path string, fresh Book) (Book, time.Time, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("snapshot file %q does not exist, starting a new book", path)
		return fresh, time.Time{}, nil
	}
	if err != nil {
		return Book{}, time.Time{}, fmt.Errorf("could not open snapshot file %q: %w", path, err)
	}
	defer f.Close()

	book, savedAt, err := DecodeSnapshot(f)
	if err != nil {
		return Book{}, time.Time{}, fmt.Errorf("could not decode snapshot file %q: %w", path, err)
	}
	return book, savedAt, nil
}

// SaveFile writes book to the snapshot file at path, stamped with savedAt.
// The file is replaced atomically, so a failed save leaves the previous
// snapshot in place.
func SaveFile(path string, book Book, savedAt time.Time) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory for snapshot %q: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("error opening snapshot file %q for writing: %w", path, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := EncodeSnapshot(tmp, book, savedAt); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write snapshot %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace snapshot %q: %w", path, err)
	}
	log.Printf("snapshot saved file=%q transactions=%d investments=%d", path, book.Ledger.Len(), book.Portfolio.Len())
	return nil
}
