package user

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/kailas-cloud/esbridge/internal/db"
	"github.com/kailas-cloud/esbridge/internal/domain"
	domuser "github.com/kailas-cloud/esbridge/internal/domain/user"
)

// DefaultPrefix is the key prefix of user hashes.
const DefaultPrefix = "esbridge:user:"

// Hash field names.
const (
	fieldID    = "id"
	fieldName  = "name"
	fieldEmail = "email"
	fieldAge   = "age"
)

// store is the consumer interface for the user record store (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Unlink(ctx context.Context, keys ...string) (int64, error)
}

// Source reads user records from hashes named <prefix><id>.
type Source struct {
	store  store
	prefix string
}

// New creates a user source. An empty prefix means DefaultPrefix.
func New(s store, prefix string) *Source {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Source{store: s, prefix: prefix}
}

// FetchAll returns every record sorted by ascending id.
func (s *Source) FetchAll(ctx context.Context) ([]domuser.Record, error) {
	keys, err := s.store.Scan(ctx, s.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	if len(keys) == 0 {
		return []domuser.Record{}, nil
	}

	hashes, err := s.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi users: %w", err)
	}

	records := make([]domuser.Record, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		rec, err := recordFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse user %s: %w", keys[i], err)
		}
		records = append(records, rec)
	}

	slices.SortFunc(records, func(a, b domuser.Record) int { return cmp.Compare(a.ID, b.ID) })
	return records, nil
}

// FetchOne returns the record with the lowest id.
func (s *Source) FetchOne(ctx context.Context) (domuser.Record, error) {
	records, err := s.FetchAll(ctx)
	if err != nil {
		return domuser.Record{}, err
	}
	if len(records) == 0 {
		return domuser.Record{}, domain.ErrNoRecords
	}
	return records[0], nil
}

// Save writes records in one pipelined round-trip.
func (s *Source) Save(ctx context.Context, records ...domuser.Record) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
	}

	items := lo.Map(records, func(r domuser.Record, _ int) db.HashSetItem {
		return db.HashSetItem{Key: s.key(r.ID), Fields: recordToHash(r)}
	})
	if err := s.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// Clear deletes every record and returns how many were removed.
func (s *Source) Clear(ctx context.Context) (int, error) {
	keys, err := s.store.Scan(ctx, s.prefix+"*")
	if err != nil {
		return 0, fmt.Errorf("scan users: %w", err)
	}
	removed, err := s.store.Unlink(ctx, keys...)
	if err != nil {
		return int(removed), fmt.Errorf("delete users: %w", err)
	}
	return int(removed), nil
}

func (s *Source) key(id int64) string {
	return s.prefix + strconv.FormatInt(id, 10)
}

func recordToHash(r domuser.Record) map[string]string {
	return map[string]string{
		fieldID:    strconv.FormatInt(r.ID, 10),
		fieldName:  r.Name,
		fieldEmail: r.Email,
		fieldAge:   strconv.Itoa(r.Age),
	}
}

func recordFromHash(m map[string]string) (domuser.Record, error) {
	id, err := strconv.ParseInt(m[fieldID], 10, 64)
	if err != nil {
		return domuser.Record{}, fmt.Errorf("invalid id %q: %w", m[fieldID], err)
	}

	var age int
	if v := m[fieldAge]; v != "" {
		age, err = strconv.Atoi(v)
		if err != nil {
			return domuser.Record{}, fmt.Errorf("invalid age %q: %w", v, err)
		}
	}

	return domuser.Record{ID: id, Name: m[fieldName], Email: m[fieldEmail], Age: age}, nil
}
