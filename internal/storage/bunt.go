package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/buntdb"

	"github.com/sojournii/sojournii/internal/model"
)

// BuntStore keeps records as JSON values in an embedded buntdb file. Keys
// sort by date within a user, so ranges are key scans:
//
//	day:<user>:<YYYY-MM-DD>
//	retro:<user>:<week start>
//	settings:<user>
type BuntStore struct {
	db *buntdb.DB
}

// OpenBunt opens (or creates) a buntdb file. ":memory:" gives an in-memory
// database.
func OpenBunt(path string) (*BuntStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open buntdb %s: %w", path, err)
	}
	return &BuntStore{db: db}, nil
}

func dayKey(userID, date string) string   { return "day:" + userID + ":" + date }
func retroKey(userID, week string) string { return "retro:" + userID + ":" + week }
func settingsKey(userID string) string    { return "settings:" + userID }

func getJSON(tx *buntdb.Tx, key string, v any) error {
	raw, err := tx.Get(key)
	if errors.Is(err, buntdb.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("corrupt value at %s: %w", key, err)
	}
	return nil
}

func setJSON(tx *buntdb.Tx, key string, v any) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, _, err = tx.Set(key, string(bs), nil)
	return err
}

func (s *BuntStore) UpsertDay(_ context.Context, rec model.DayRecord) (model.DayRecord, error) {
	if err := ValidateKey(rec.UserID); err != nil {
		return model.DayRecord{}, err
	}
	if _, err := parseDate(rec.Date); err != nil {
		return model.DayRecord{}, err
	}
	err := s.db.Update(func(tx *buntdb.Tx) error {
		var existing model.DayRecord
		var prev *model.DayRecord
		switch err := getJSON(tx, dayKey(rec.UserID, rec.Date), &existing); {
		case err == nil:
			prev = &existing
		case !errors.Is(err, ErrNotFound):
			return err
		}
		rec = mergeDay(prev, rec)
		return setJSON(tx, dayKey(rec.UserID, rec.Date), rec)
	})
	if err != nil {
		return model.DayRecord{}, err
	}
	return rec, nil
}

func (s *BuntStore) GetDay(_ context.Context, userID, date string) (model.DayRecord, error) {
	var rec model.DayRecord
	err := s.db.View(func(tx *buntdb.Tx) error {
		return getJSON(tx, dayKey(userID, date), &rec)
	})
	return rec, err
}

func (s *BuntStore) ListDays(_ context.Context, userID, from, to string) ([]model.DayRecord, error) {
	if err := ValidateKey(userID); err != nil {
		return nil, err
	}
	var recs []model.DayRecord
	var decodeErr error
	err := s.db.View(func(tx *buntdb.Tx) error {
		// "~" sorts after every date character, closing the range at "to".
		return tx.AscendRange("", dayKey(userID, from), dayKey(userID, to)+"~", func(key, value string) bool {
			var rec model.DayRecord
			if err := json.Unmarshal([]byte(value), &rec); err != nil {
				decodeErr = fmt.Errorf("corrupt value at %s: %w", key, err)
				return false
			}
			recs = append(recs, rec)
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	return recs, decodeErr
}

func (s *BuntStore) DeleteDay(_ context.Context, userID, date string) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(dayKey(userID, date))
		if errors.Is(err, buntdb.ErrNotFound) {
			return ErrNotFound
		}
		return err
	})
}

func (s *BuntStore) GetSettings(_ context.Context, userID string) (model.Settings, error) {
	var st model.Settings
	err := s.db.View(func(tx *buntdb.Tx) error {
		return getJSON(tx, settingsKey(userID), &st)
	})
	return st, err
}

func (s *BuntStore) SaveSettings(_ context.Context, st model.Settings) error {
	if err := ValidateKey(st.UserID); err != nil {
		return err
	}
	return s.db.Update(func(tx *buntdb.Tx) error {
		return setJSON(tx, settingsKey(st.UserID), st)
	})
}

func (s *BuntStore) ListSettings(_ context.Context) ([]model.Settings, error) {
	var all []model.Settings
	var decodeErr error
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys("settings:*", func(key, value string) bool {
			var st model.Settings
			if err := json.Unmarshal([]byte(value), &st); err != nil {
				decodeErr = fmt.Errorf("corrupt value at %s: %w", key, err)
				return false
			}
			if st.UserID == "" {
				st.UserID = strings.TrimPrefix(key, "settings:")
			}
			all = append(all, st)
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	return all, decodeErr
}

func (s *BuntStore) UpsertRetro(_ context.Context, r model.Retrospective) (model.Retrospective, error) {
	if err := ValidateKey(r.UserID, r.WeekStart); err != nil {
		return model.Retrospective{}, err
	}
	err := s.db.Update(func(tx *buntdb.Tx) error {
		var existing model.Retrospective
		var prev *model.Retrospective
		switch err := getJSON(tx, retroKey(r.UserID, r.WeekStart), &existing); {
		case err == nil:
			prev = &existing
		case !errors.Is(err, ErrNotFound):
			return err
		}
		r = mergeRetro(prev, r)
		return setJSON(tx, retroKey(r.UserID, r.WeekStart), r)
	})
	if err != nil {
		return model.Retrospective{}, err
	}
	return r, nil
}

func (s *BuntStore) GetRetro(_ context.Context, userID, weekStart string) (model.Retrospective, error) {
	var r model.Retrospective
	err := s.db.View(func(tx *buntdb.Tx) error {
		return getJSON(tx, retroKey(userID, weekStart), &r)
	})
	return r, err
}

func (s *BuntStore) Close() error {
	return s.db.Close()
}
