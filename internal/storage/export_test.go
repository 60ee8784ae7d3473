package storage

import "context"

// FlushRedis empties the database behind s.
func FlushRedis(ctx context.Context, s *RedisStore) error {
	return s.client.FlushDB(ctx).Err()
}
