package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileStore keeps each collection as a pretty-printed JSON array in its own
// file.
//
// Layout:
//
//	data_dir/
//	  users.json          # "users" collection
//	  transactions.json   # "transactions" collection
//
// Every operation loads the whole collection. Writes replace the whole file
// through a temp file and rename. Writers to one collection are serialized
// within the process; other processes writing the same directory are not
// coordinated.
type FileStore struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewFileStore returns a store rooted at dir on fs. The directory is created
// lazily on first use.
func NewFileStore(fs afero.Fs, dir string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		fs:     fs,
		dir:    dir,
		logger: logger.Named("file_store"),
		now:    time.Now,
		locks:  make(map[string]*sync.RWMutex),
	}
}

func (s *FileStore) lock(collection string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[collection] = l
	}
	return l
}

func (s *FileStore) collectionPath(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// ensureDir is idempotent and safe to race with another creator.
func (s *FileStore) ensureDir() error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %q: %w", s.dir, err)
	}
	return nil
}

// load reads a collection. Missing or unreadable files yield an empty
// collection; corrupt reports a file that exists but does not hold a JSON
// array of records.
func (s *FileStore) load(collection string) (records []Record, corrupt bool) {
	if err := s.ensureDir(); err != nil {
		s.logger.Warn("Data directory unavailable, treating collection as empty",
			zap.String("collection", collection), zap.Error(err))
		return nil, false
	}
	path := s.collectionPath(collection)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Collection file unreadable, treating as empty",
				zap.String("collection", collection), zap.String("path", path), zap.Error(err))
		}
		return nil, false
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("Collection file is malformed, treating as empty",
			zap.String("collection", collection), zap.String("path", path), zap.Error(err))
		return nil, true
	}
	records = make([]Record, 0, len(raw))
	for _, doc := range raw {
		if doc == nil {
			continue
		}
		records = append(records, Record(doc))
	}
	return records, false
}

// save replaces the collection file. A malformed previous file is moved
// aside first so its content is not lost.
func (s *FileStore) save(collection string, records []Record, corrupt bool) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	path := s.collectionPath(collection)

	if corrupt {
		backup := fmt.Sprintf("%s.corrupt-%d", path, s.now().UnixNano())
		if err := s.fs.Rename(path, backup); err != nil {
			s.logger.Warn("Failed to preserve malformed collection file",
				zap.String("path", path), zap.Error(err))
		} else {
			s.logger.Warn("Preserved malformed collection file before overwrite",
				zap.String("path", path), zap.String("backup", backup))
		}
	}

	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", collection, err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, collection+".json.tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write collection %q: %w", collection, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write collection %q: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write collection %q: %w", collection, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace collection %q: %w", collection, err)
	}
	return nil
}

func indexOf(records []Record, c Criteria) int {
	for i, r := range records {
		if c.Match(r) {
			return i
		}
	}
	return -1
}

func (s *FileStore) FindByID(ctx context.Context, collection, id string) (Record, error) {
	return s.FindOne(ctx, collection, ByID(id))
}

func (s *FileStore) FindOne(ctx context.Context, collection string, c Criteria) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := s.lock(collection)
	l.RLock()
	defer l.RUnlock()

	records, _ := s.load(collection)
	if i := indexOf(records, c); i >= 0 {
		return records[i], nil
	}
	return nil, nil
}

func (s *FileStore) Find(ctx context.Context, collection string, c Criteria) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := s.lock(collection)
	l.RLock()
	defer l.RUnlock()

	records, _ := s.load(collection)
	if len(c) == 0 {
		if records == nil {
			return []Record{}, nil
		}
		return records, nil
	}
	matches := make([]Record, 0)
	for _, r := range records {
		if c.Match(r) {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

func (s *FileStore) Create(ctx context.Context, collection string, fields Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	records, corrupt := s.load(collection)

	id, err := s.uniqueID(records)
	if err != nil {
		return nil, err
	}
	stamp := FormatTime(s.now())
	rec := sanitize(fields)
	rec[FieldID] = id
	rec[FieldCreatedAt] = stamp
	rec[FieldUpdatedAt] = stamp

	created, err := normalize(rec)
	if err != nil {
		return nil, err
	}
	if err := s.save(collection, append(records, created), corrupt); err != nil {
		return nil, err
	}
	return created, nil
}

// uniqueID mints ids until one is unused in records.
func (s *FileStore) uniqueID(records []Record) (string, error) {
	taken := make(map[string]struct{}, len(records))
	for _, r := range records {
		taken[r.ID()] = struct{}{}
	}
	for {
		id, err := NewID()
		if err != nil {
			return "", err
		}
		if _, dup := taken[id]; !dup {
			return id, nil
		}
	}
}

func (s *FileStore) Update(ctx context.Context, collection, id string, fields Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	records, corrupt := s.load(collection)
	i := indexOf(records, ByID(id))
	if i < 0 {
		return nil, nil
	}

	merged := records[i].Clone()
	for k, v := range sanitize(fields) {
		merged[k] = v
	}
	merged[FieldUpdatedAt] = FormatTime(nextUpdatedAt(records[i], s.now()))

	updated, err := normalize(merged)
	if err != nil {
		return nil, err
	}
	records[i] = updated
	if err := s.save(collection, records, corrupt); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *FileStore) FindOneAndDelete(ctx context.Context, collection string, c Criteria) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	records, corrupt := s.load(collection)
	i := indexOf(records, c)
	if i < 0 {
		return nil, nil
	}
	deleted := records[i]
	remaining := append(records[:i:i], records[i+1:]...)
	if err := s.save(collection, remaining, corrupt); err != nil {
		return nil, err
	}
	return deleted, nil
}

// Close is a no-op; the file store holds no open handles between calls.
func (s *FileStore) Close() error {
	return nil
}
