package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/sojournii/sojournii/internal/model"
)

// RedisStore keeps records as JSON strings. Each user's dates sit in a
// sorted set with equal scores so ranges are lexical scans:
//
//	sojournii:day:<user>:<date>     record
//	sojournii:days:<user>           sorted set of dates
//	sojournii:retro:<user>:<week>   retrospective
//	sojournii:settings:<user>       settings
//	sojournii:users                 set of users with settings
type RedisStore struct {
	client *redis.Client
}

const (
	redisPrefix   = "sojournii:"
	redisUsersKey = redisPrefix + "users"

	// upserts retry this often when a concurrent writer touches the key
	watchRetries = 5
)

func redisDayKey(userID, date string) string   { return redisPrefix + "day:" + userID + ":" + date }
func redisDaysKey(userID string) string        { return redisPrefix + "days:" + userID }
func redisRetroKey(userID, week string) string { return redisPrefix + "retro:" + userID + ":" + week }
func redisSettingsKey(userID string) string    { return redisPrefix + "settings:" + userID }

// OpenRedis connects to a redis URL such as "redis://localhost:6379/0".
func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	if url == "" {
		return nil, errors.New("redis backend needs a database URL")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func decodeRedis(key string, raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("corrupt value at %s: %w", key, err)
	}
	return nil
}

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func redisGetJSON(ctx context.Context, c redisGetter, key string, v any) error {
	raw, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return decodeRedis(key, raw, v)
}

// watch runs fn in an optimistic transaction on key, retrying on conflicts.
func (s *RedisStore) watch(ctx context.Context, key string, fn func(*redis.Tx) error) error {
	var err error
	for i := 0; i < watchRetries; i++ {
		err = s.client.Watch(ctx, fn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("update %s: %w", key, err)
}

func (s *RedisStore) UpsertDay(ctx context.Context, rec model.DayRecord) (model.DayRecord, error) {
	if err := ValidateKey(rec.UserID); err != nil {
		return model.DayRecord{}, err
	}
	if _, err := parseDate(rec.Date); err != nil {
		return model.DayRecord{}, err
	}
	key := redisDayKey(rec.UserID, rec.Date)
	var out model.DayRecord
	err := s.watch(ctx, key, func(tx *redis.Tx) error {
		var existing model.DayRecord
		var prev *model.DayRecord
		switch err := redisGetJSON(ctx, tx, key, &existing); {
		case err == nil:
			prev = &existing
		case !errors.Is(err, ErrNotFound):
			return err
		}
		out = mergeDay(prev, rec)
		bs, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, bs, 0)
			pipe.ZAdd(ctx, redisDaysKey(rec.UserID), redis.Z{Member: rec.Date})
			return nil
		})
		return err
	})
	if err != nil {
		return model.DayRecord{}, err
	}
	return out, nil
}

func (s *RedisStore) GetDay(ctx context.Context, userID, date string) (model.DayRecord, error) {
	var rec model.DayRecord
	err := redisGetJSON(ctx, s.client, redisDayKey(userID, date), &rec)
	return rec, err
}

func (s *RedisStore) ListDays(ctx context.Context, userID, from, to string) ([]model.DayRecord, error) {
	if err := ValidateKey(userID); err != nil {
		return nil, err
	}
	dates, err := s.client.ZRangeByLex(ctx, redisDaysKey(userID), &redis.ZRangeBy{
		Min: "[" + from,
		Max: "[" + to,
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = redisDayKey(userID, d)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	recs := make([]model.DayRecord, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// index entry left behind by an interrupted delete
			continue
		}
		var rec model.DayRecord
		if err := decodeRedis(keys[i], raw, &rec); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *RedisStore) DeleteDay(ctx context.Context, userID, date string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, redisDayKey(userID, date))
		pipe.ZRem(ctx, redisDaysKey(userID), date)
		return nil
	})
	if err != nil {
		return err
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) GetSettings(ctx context.Context, userID string) (model.Settings, error) {
	var st model.Settings
	err := redisGetJSON(ctx, s.client, redisSettingsKey(userID), &st)
	return st, err
}

func (s *RedisStore) SaveSettings(ctx context.Context, st model.Settings) error {
	if err := ValidateKey(st.UserID); err != nil {
		return err
	}
	bs, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisSettingsKey(st.UserID), bs, 0)
		pipe.SAdd(ctx, redisUsersKey, st.UserID)
		return nil
	})
	return err
}

func (s *RedisStore) ListSettings(ctx context.Context) ([]model.Settings, error) {
	users, err := s.client.SMembers(ctx, redisUsersKey).Result()
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	sort.Strings(users)
	keys := make([]string, len(users))
	for i, u := range users {
		keys[i] = redisSettingsKey(u)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	all := make([]model.Settings, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var st model.Settings
		if err := decodeRedis(keys[i], raw, &st); err != nil {
			return nil, err
		}
		if st.UserID == "" {
			st.UserID = users[i]
		}
		all = append(all, st)
	}
	return all, nil
}

func (s *RedisStore) UpsertRetro(ctx context.Context, r model.Retrospective) (model.Retrospective, error) {
	if err := ValidateKey(r.UserID, r.WeekStart); err != nil {
		return model.Retrospective{}, err
	}
	key := redisRetroKey(r.UserID, r.WeekStart)
	var out model.Retrospective
	err := s.watch(ctx, key, func(tx *redis.Tx) error {
		var existing model.Retrospective
		var prev *model.Retrospective
		switch err := redisGetJSON(ctx, tx, key, &existing); {
		case err == nil:
			prev = &existing
		case !errors.Is(err, ErrNotFound):
			return err
		}
		out = mergeRetro(prev, r)
		bs, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, bs, 0)
			return nil
		})
		return err
	})
	if err != nil {
		return model.Retrospective{}, err
	}
	return out, nil
}

func (s *RedisStore) GetRetro(ctx context.Context, userID, weekStart string) (model.Retrospective, error) {
	var r model.Retrospective
	err := redisGetJSON(ctx, s.client, redisRetroKey(userID, weekStart), &r)
	return r, err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
