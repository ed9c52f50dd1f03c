// Package transcript implements the persistence capability for saved
// conversations: plain JSON documents in a directory, keyed by names that
// embed the creation timestamp so chronological order is a name sort.
package transcript

import (
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/voxee/voxee/file"
)

// Entry describes one stored transcript.
type Entry struct {
	Key     string
	ModTime time.Time
	Size    int64
}

// CreatedAt extracts the creation time embedded in the key, falling back to
// the file modification time for keys minted elsewhere.
func (e Entry) CreatedAt() time.Time {
	name := strings.TrimSuffix(strings.TrimPrefix(e.Key, "Chat_"), ".json")
	millis, err := strconv.ParseInt(name, 10, 64)
	if err != nil {
		return e.ModTime
	}
	return time.UnixMilli(millis)
}

// Store is a local filesystem transcript store.
type Store struct {
	dir string
}

// Open a store rooted at the given directory, creating it if needed.
func Open(dir string) (*Store, error) {
	if err := file.CreateDirectoryIfNotExist(dir); err != nil {
		return nil, errors.Wrap(err, "creating directory")
	}
	return &Store{dir: dir}, nil
}

// Write a transcript document under the given key. Whole-document replace;
// last write wins.
func (s *Store) Write(key string, data []byte) error {
	if err := os.WriteFile(path.Join(s.dir, key), data, 0644); err != nil {
		return errors.Wrap(err, "writing transcript")
	}
	return nil
}

// Read the transcript document stored under the given key.
func (s *Store) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(path.Join(s.dir, key))
	if err != nil {
		return nil, errors.Wrap(err, "reading transcript")
	}
	return data, nil
}

// List all stored transcripts, most recently created first.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "listing transcripts")
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}
		info, err := dirEntry.Info()
		if err != nil {
			return nil, errors.Wrapf(err, "reading dir entry (%s)", dirEntry.Name())
		}
		entries = append(entries, Entry{
			Key:     dirEntry.Name(),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt().After(entries[j].CreatedAt())
	})
	return entries, nil
}

// Delete the transcript stored under the given key.
func (s *Store) Delete(key string) error {
	if err := os.Remove(path.Join(s.dir, key)); err != nil {
		return errors.Wrap(err, "deleting transcript")
	}
	return nil
}

// Rename a stored transcript.
func (s *Store) Rename(oldKey, newKey string) error {
	if err := os.Rename(path.Join(s.dir, oldKey), path.Join(s.dir, newKey)); err != nil {
		return errors.Wrap(err, "renaming transcript")
	}
	return nil
}
