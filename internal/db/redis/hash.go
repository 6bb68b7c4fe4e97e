package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
	"github.com/samber/lo"

	"github.com/kailas-cloud/esbridge/internal/db"
)

const (
	scanCount   = 100
	unlinkChunk = 500
)

// HSetMulti pipelines one HSET per record. The first failing key aborts.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make(rueidis.Commands, 0, len(items))
	for _, item := range items {
		if len(item.Fields) == 0 {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: no fields", item.Key)}
		}
		cmd := s.b().Hset().Key(item.Key).FieldValue()
		for k, v := range item.Fields {
			cmd = cmd.FieldValue(k, v)
		}
		cmds = append(cmds, cmd.Build())
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", items[i].Key, err)}
		}
	}
	return nil
}

// HGetAllMulti pipelines HGETALL for keys. A key removed since it was
// listed comes back as an empty map at its position.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := lo.Map(keys, func(key string, _ int) rueidis.Completed {
		return s.b().Hgetall().Key(key).Build()
	})

	results := s.client.DoMulti(ctx, cmds...)
	out := make([]map[string]string, len(results))
	for i, res := range results {
		m, err := res.AsStrMap()
		if err != nil {
			return nil, &db.Error{Op: db.OpHGetAll, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		out[i] = m
	}
	return out, nil
}

// Scan walks the keyspace with SCAN MATCH pattern. SCAN may report a key
// more than once, so the result is de-duplicated.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(scanCount).Build()
		page, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		keys = append(keys, page.Elements...)
		if cursor = page.Cursor; cursor == 0 {
			return lo.Uniq(keys), nil
		}
	}
}

// Unlink removes keys in chunks of UNLINK commands and returns how many existed.
func (s *Store) Unlink(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	chunks := lo.Chunk(keys, unlinkChunk)
	cmds := lo.Map(chunks, func(chunk []string, _ int) rueidis.Completed {
		return s.b().Unlink().Key(chunk...).Build()
	})

	var removed int64
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		n, err := res.AsInt64()
		if err != nil {
			return removed, &db.Error{Op: db.OpUnlink, Err: fmt.Errorf("chunk %d: %w", i, err)}
		}
		removed += n
	}
	return removed, nil
}
