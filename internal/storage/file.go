package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/alexflint/go-filemutex"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/timecalc"
)

// FileStore keeps one human-readable JSON file per record:
//
//	<base>/users/<user>/days/YYYY/MM/DD.json
//	<base>/users/<user>/retros/<week start>.json
//	<base>/users/<user>/settings.json
//
// Writes are atomic. They are serialised within the process by a mutex and
// across processes by a lock file.
type FileStore struct {
	base  string
	local sync.Mutex
	mu    *filemutex.FileMutex
}

// BaseDir returns the default data directory (~/.sojournii).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".sojournii"), nil
}

// NewFileStore opens a file store rooted at base, creating it if needed.
// An empty base uses BaseDir.
func NewFileStore(base string) (*FileStore, error) {
	if base == "" {
		var err error
		if base, err = BaseDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(base, 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating %s: %w", base, err)
	}
	mu, err := filemutex.New(filepath.Join(base, ".lock"))
	if err != nil {
		return nil, fmt.Errorf("storage error creating lock file: %w", err)
	}
	return &FileStore{base: base, mu: mu}, nil
}

func (s *FileStore) userDir(userID string) string {
	return filepath.Join(s.base, "users", userID)
}

// dayFilePath returns the path for the given date's JSON file.
func (s *FileStore) dayFilePath(userID string, day time.Time) string {
	return filepath.Join(s.userDir(userID), "days", day.Format("2006"), day.Format("01"), day.Format("02")+".json")
}

func (s *FileStore) retroFilePath(userID, weekStart string) string {
	return filepath.Join(s.userDir(userID), "retros", weekStart+".json")
}

func (s *FileStore) settingsFilePath(userID string) string {
	return filepath.Join(s.userDir(userID), "settings.json")
}

// readJSON decodes path into v. Missing files yield ErrNotFound; corrupt
// files are moved aside to <path>.corrupt.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("storage error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return nil
}

// writeJSON atomically writes v to path.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to a temp file of our own, then rename.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("storage error creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// lock excludes other goroutines first, then other processes. The file
// lock alone is shared by every goroutine holding the same descriptor.
func (s *FileStore) lock() (func(), error) {
	s.local.Lock()
	if err := s.mu.Lock(); err != nil {
		s.local.Unlock()
		return nil, fmt.Errorf("storage lock: %w", err)
	}
	return func() {
		_ = s.mu.Unlock()
		s.local.Unlock()
	}, nil
}

func parseDate(date string) (time.Time, error) {
	d, err := time.Parse(timecalc.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d, nil
}

// GetDay loads the record for the given date.
func (s *FileStore) GetDay(_ context.Context, userID, date string) (model.DayRecord, error) {
	if err := ValidateKey(userID); err != nil {
		return model.DayRecord{}, err
	}
	day, err := parseDate(date)
	if err != nil {
		return model.DayRecord{}, err
	}
	var rec model.DayRecord
	if err := readJSON(s.dayFilePath(userID, day), &rec); err != nil {
		return model.DayRecord{}, err
	}
	return rec, nil
}

// UpsertDay replaces the record for rec's (user, date) or creates it.
func (s *FileStore) UpsertDay(ctx context.Context, rec model.DayRecord) (model.DayRecord, error) {
	unlock, err := s.lock()
	if err != nil {
		return model.DayRecord{}, err
	}
	defer unlock()

	existing, err := s.GetDay(ctx, rec.UserID, rec.Date)
	var prev *model.DayRecord
	switch {
	case err == nil:
		prev = &existing
	case !errors.Is(err, ErrNotFound):
		return model.DayRecord{}, err
	}

	day, _ := parseDate(rec.Date)
	rec = mergeDay(prev, rec)
	if err := writeJSON(s.dayFilePath(rec.UserID, day), rec); err != nil {
		return model.DayRecord{}, err
	}
	return rec, nil
}

// ListDays loads all records in [from, to] inclusive.
func (s *FileStore) ListDays(ctx context.Context, userID, from, to string) ([]model.DayRecord, error) {
	start, err := parseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(to)
	if err != nil {
		return nil, err
	}
	var recs []model.DayRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		rec, err := s.GetDay(ctx, userID, d.Format(timecalc.DateLayout))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// DeleteDay removes the record for the given date.
func (s *FileStore) DeleteDay(_ context.Context, userID, date string) error {
	if err := ValidateKey(userID); err != nil {
		return err
	}
	day, err := parseDate(date)
	if err != nil {
		return err
	}
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	err = os.Remove(s.dayFilePath(userID, day))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("storage error deleting day: %w", err)
	}
	return nil
}

// GetSettings loads a user's settings.
func (s *FileStore) GetSettings(_ context.Context, userID string) (model.Settings, error) {
	if err := ValidateKey(userID); err != nil {
		return model.Settings{}, err
	}
	var st model.Settings
	if err := readJSON(s.settingsFilePath(userID), &st); err != nil {
		return model.Settings{}, err
	}
	return st, nil
}

// SaveSettings writes a user's settings.
func (s *FileStore) SaveSettings(_ context.Context, st model.Settings) error {
	if err := ValidateKey(st.UserID); err != nil {
		return err
	}
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	return writeJSON(s.settingsFilePath(st.UserID), st)
}

// ListSettings returns the settings of every user, ordered by user ID.
func (s *FileStore) ListSettings(ctx context.Context) ([]model.Settings, error) {
	entries, err := os.ReadDir(filepath.Join(s.base, "users"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error listing users: %w", err)
	}
	var all []model.Settings
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		st, err := s.GetSettings(ctx, e.Name())
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		all = append(all, st)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return all, nil
}

// UpsertRetro replaces or creates the retrospective of r's week.
func (s *FileStore) UpsertRetro(ctx context.Context, r model.Retrospective) (model.Retrospective, error) {
	unlock, err := s.lock()
	if err != nil {
		return model.Retrospective{}, err
	}
	defer unlock()

	existing, err := s.GetRetro(ctx, r.UserID, r.WeekStart)
	var prev *model.Retrospective
	switch {
	case err == nil:
		prev = &existing
	case !errors.Is(err, ErrNotFound):
		return model.Retrospective{}, err
	}
	r = mergeRetro(prev, r)
	if err := writeJSON(s.retroFilePath(r.UserID, r.WeekStart), r); err != nil {
		return model.Retrospective{}, err
	}
	return r, nil
}

// GetRetro loads the retrospective of the week starting at weekStart.
func (s *FileStore) GetRetro(_ context.Context, userID, weekStart string) (model.Retrospective, error) {
	if err := ValidateKey(userID, weekStart); err != nil {
		return model.Retrospective{}, err
	}
	var r model.Retrospective
	if err := readJSON(s.retroFilePath(userID, weekStart), &r); err != nil {
		return model.Retrospective{}, err
	}
	return r, nil
}

// Close releases the lock file handle.
func (s *FileStore) Close() error {
	return s.mu.Close()
}
