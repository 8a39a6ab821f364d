package snippets

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const snippetExt = ".json"

// DiskStore stores each snippet as a JSON document in a directory.
// Files are replaced atomically, so concurrent readers never observe a
// partial document.
type DiskStore struct {
	dir    string
	remove func(name string) error
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir, remove: os.Remove}, nil
}

// Dir returns the store directory.
func (d *DiskStore) Dir() string {
	return d.dir
}

// Save writes s to <dir>/<id>.json.
func (d *DiskStore) Save(ctx context.Context, s *Snippet) (string, error) {
	if err := prepare(s); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(d.dir, ".snippet-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), d.path(s.ID)); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return s.ID, nil
}

// Get reads a snippet from disk.
func (d *DiskStore) Get(ctx context.Context, id string) (*Snippet, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return d.load(d.path(id))
}

// List reads every snippet in the directory, newest first. Files that do
// not decode are skipped.
func (d *DiskStore) List(ctx context.Context) ([]*Snippet, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}

	list := make([]*Snippet, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, ok := d.idOf(entry)
		if !ok {
			continue
		}
		s, err := d.load(d.path(id))
		if err != nil {
			continue
		}
		list = append(list, s)
	}

	sortNewest(list)
	return list, nil
}

// Delete removes a snippet file.
func (d *DiskStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := os.Remove(d.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Cleanup removes snippets created more than maxAge ago. Undecodable
// files are judged by their modification time. A file that cannot be
// removed does not stop the sweep; every such failure is reported in the
// returned error.
func (d *DiskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return err
	}

	var errs []error
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		id, ok := d.idOf(entry)
		if !ok {
			continue
		}

		created := time.Time{}
		if s, err := d.load(d.path(id)); err == nil {
			created = s.CreatedAt
		} else if info, err := entry.Info(); err == nil {
			created = info.ModTime()
		}
		if !created.Before(cutoff) {
			continue
		}
		if err := d.remove(d.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *DiskStore) path(id string) string {
	return filepath.Join(d.dir, id+snippetExt)
}

func (d *DiskStore) idOf(entry os.DirEntry) (string, bool) {
	if entry.IsDir() {
		return "", false
	}
	id, ok := strings.CutSuffix(entry.Name(), snippetExt)
	if !ok || !validID(id) {
		return "", false
	}
	return id, true
}

func (d *DiskStore) load(path string) (*Snippet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var s Snippet
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
