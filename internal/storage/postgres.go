package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/sojournii/sojournii/internal/model"
)

// Rows hold the record as a JSON document next to the columns used for
// lookups, mirroring the file and bunt layouts.
type dayRow struct {
	UserID    string `gorm:"primaryKey;size:128"`
	Date      string `gorm:"primaryKey;size:10"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (dayRow) TableName() string { return "day_records" }

type settingsRow struct {
	UserID    string `gorm:"primaryKey;size:128"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (settingsRow) TableName() string { return "user_settings" }

type retroRow struct {
	UserID    string `gorm:"primaryKey;size:128"`
	WeekStart string `gorm:"primaryKey;size:10"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (retroRow) TableName() string { return "retrospectives" }

// PostgresStore keeps records in PostgreSQL through gorm.
type PostgresStore struct {
	db *gorm.DB
}

// OpenPostgres connects to dsn and migrates the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres backend needs a database URL")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&dayRow{}, &settingsRow{}, &retroRow{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) UpsertDay(ctx context.Context, rec model.DayRecord) (model.DayRecord, error) {
	if err := ValidateKey(rec.UserID); err != nil {
		return model.DayRecord{}, err
	}
	if _, err := parseDate(rec.Date); err != nil {
		return model.DayRecord{}, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row dayRow
		var prev *model.DayRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND date = ?", rec.UserID, rec.Date).First(&row).Error
		switch {
		case err == nil:
			var existing model.DayRecord
			if err := json.Unmarshal([]byte(row.Payload), &existing); err != nil {
				return fmt.Errorf("corrupt day record %s/%s: %w", rec.UserID, rec.Date, err)
			}
			prev = &existing
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		rec = mergeDay(prev, rec)
		bs, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).Create(&dayRow{UserID: rec.UserID, Date: rec.Date, Payload: string(bs), UpdatedAt: rec.UpdatedAt}).Error
	})
	if err != nil {
		return model.DayRecord{}, err
	}
	return rec, nil
}

func (s *PostgresStore) GetDay(ctx context.Context, userID, date string) (model.DayRecord, error) {
	var row dayRow
	if err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&row).Error; err != nil {
		return model.DayRecord{}, notFound(err)
	}
	var rec model.DayRecord
	if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
		return model.DayRecord{}, fmt.Errorf("corrupt day record %s/%s: %w", userID, date, err)
	}
	return rec, nil
}

func (s *PostgresStore) ListDays(ctx context.Context, userID, from, to string) ([]model.DayRecord, error) {
	var rows []dayRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	recs := make([]model.DayRecord, 0, len(rows))
	for _, row := range rows {
		var rec model.DayRecord
		if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
			return nil, fmt.Errorf("corrupt day record %s/%s: %w", row.UserID, row.Date, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *PostgresStore) DeleteDay(ctx context.Context, userID, date string) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).Delete(&dayRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetSettings(ctx context.Context, userID string) (model.Settings, error) {
	var row settingsRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return model.Settings{}, notFound(err)
	}
	var st model.Settings
	if err := json.Unmarshal([]byte(row.Payload), &st); err != nil {
		return model.Settings{}, fmt.Errorf("corrupt settings for %s: %w", userID, err)
	}
	return st, nil
}

func (s *PostgresStore) SaveSettings(ctx context.Context, st model.Settings) error {
	if err := ValidateKey(st.UserID); err != nil {
		return err
	}
	bs, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&settingsRow{UserID: st.UserID, Payload: string(bs), UpdatedAt: time.Now()}).Error
}

func (s *PostgresStore) ListSettings(ctx context.Context) ([]model.Settings, error) {
	var rows []settingsRow
	if err := s.db.WithContext(ctx).Order("user_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	all := make([]model.Settings, 0, len(rows))
	for _, row := range rows {
		var st model.Settings
		if err := json.Unmarshal([]byte(row.Payload), &st); err != nil {
			return nil, fmt.Errorf("corrupt settings for %s: %w", row.UserID, err)
		}
		all = append(all, st)
	}
	return all, nil
}

func (s *PostgresStore) UpsertRetro(ctx context.Context, r model.Retrospective) (model.Retrospective, error) {
	if err := ValidateKey(r.UserID, r.WeekStart); err != nil {
		return model.Retrospective{}, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row retroRow
		var prev *model.Retrospective
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND week_start = ?", r.UserID, r.WeekStart).First(&row).Error
		switch {
		case err == nil:
			var existing model.Retrospective
			if err := json.Unmarshal([]byte(row.Payload), &existing); err != nil {
				return fmt.Errorf("corrupt retrospective %s/%s: %w", r.UserID, r.WeekStart, err)
			}
			prev = &existing
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		r = mergeRetro(prev, r)
		bs, err := json.Marshal(r)
		if err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).Create(&retroRow{UserID: r.UserID, WeekStart: r.WeekStart, Payload: string(bs), UpdatedAt: r.UpdatedAt}).Error
	})
	if err != nil {
		return model.Retrospective{}, err
	}
	return r, nil
}

func (s *PostgresStore) GetRetro(ctx context.Context, userID, weekStart string) (model.Retrospective, error) {
	var row retroRow
	if err := s.db.WithContext(ctx).Where("user_id = ? AND week_start = ?", userID, weekStart).First(&row).Error; err != nil {
		return model.Retrospective{}, notFound(err)
	}
	var r model.Retrospective
	if err := json.Unmarshal([]byte(row.Payload), &r); err != nil {
		return model.Retrospective{}, fmt.Errorf("corrupt retrospective %s/%s: %w", userID, weekStart, err)
	}
	return r, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
