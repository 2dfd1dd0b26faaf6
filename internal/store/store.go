// Package store keeps standup entries as a single JSON array under one key
// of a kv.KV. Every operation reads, modifies and writes the whole array.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/idilsaglam/standup/internal/kv"
	"github.com/idilsaglam/standup/internal/model"
)

// DefaultKey is the storage key holding the entry array.
const DefaultKey = "standup-entries"

// DefaultRecentDays is the window used by Recent when callers have no preference.
const DefaultRecentDays = 7

// Store is the entry repository.
type Store struct {
	kv    kv.KV
	key   string
	log   *zap.Logger
	now   func() time.Time
	newID func() string

	mu sync.Mutex // serialises read-modify-write cycles
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDFunc(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New returns a Store persisting into db.
func New(db kv.KV, opts ...Option) *Store {
	s := &Store{
		kv:    db,
		key:   DefaultKey,
		log:   zap.NewNop(),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Entries returns every well-formed stored entry in storage order.
func (s *Store) Entries(ctx context.Context) ([]model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save assigns a fresh id to n, appends it and persists the full set.
// Unreadable stored data is replaced rather than blocking the save.
func (s *Store) Save(ctx context.Context, n model.NewEntry) (model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		if kind, _ := KindOf(err); kind != KindCorrupt {
			return model.Entry{}, err
		}
		s.log.Warn("discarding corrupt entries", zap.String("key", s.key), zap.Error(err))
		entries = nil
	}

	e := n.WithID(s.newID())
	entries = append(entries, e)
	if err := s.persist(ctx, entries); err != nil {
		s.log.Error("save entry", zap.String("id", e.ID), zap.Error(err))
		return model.Entry{}, err
	}
	s.log.Debug("saved entry", zap.String("id", e.ID), zap.String("date", e.Date))
	return e, nil
}

// Delete removes the entry with id. It reports false, and leaves storage
// untouched, when no such entry exists.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return false, nil
	}
	if err := s.persist(ctx, kept); err != nil {
		s.log.Error("delete entry", zap.String("id", id), zap.Error(err))
		return false, err
	}
	s.log.Debug("deleted entry", zap.String("id", id))
	return true, nil
}

// Recent returns entries dated on or after local midnight days ago,
// newest first. Entries with unparseable dates are skipped.
func (s *Store) Recent(ctx context.Context, days int) ([]model.Entry, error) {
	all, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	if days < 0 {
		days = 0
	}
	cutoff := model.Today(s.now()).AddDate(0, 0, -days)

	out := make([]model.Entry, 0, len(all))
	for _, e := range all {
		d, err := model.ParseDate(e.Date)
		if err != nil || d.Before(cutoff) {
			continue
		}
		out = append(out, e)
	}
	Sort(out)
	return out, nil
}

// Sort orders entries by date descending, then name ascending.
func Sort(entries []model.Entry) {
	col := collate.New(language.English)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return col.CompareString(a.Name, b.Name) < 0
	})
}

func (s *Store) load(ctx context.Context) ([]model.Entry, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.Error("load entries", zap.String("key", s.key), zap.Error(err))
		return nil, classify("read", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []model.Entry{}, nil
	}
	entries, dropped, err := decode([]byte(raw))
	if err != nil {
		s.log.Error("load entries", zap.String("key", s.key), zap.Error(err))
		return nil, classify("decode", err)
	}
	if dropped > 0 {
		s.log.Debug("dropped malformed entries", zap.Int("count", dropped))
	}
	return entries, nil
}

func (s *Store) persist(ctx context.Context, entries []model.Entry) error {
	if entries == nil {
		entries = []model.Entry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return classify("encode", err)
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		return classify("write", err)
	}
	return nil
}

var entryFields = []string{"id", "name", "date", "yesterday", "today", "blockers"}

// decode parses the stored array, dropping records that are not objects
// with every field present as a JSON string. A value that is valid JSON
// but not an array decodes to no entries.
func decode(raw []byte) ([]model.Entry, int, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return []model.Entry{}, 0, nil
		}
		return nil, 0, err
	}

	out := make([]model.Entry, 0, len(records))
	dropped := 0
	for _, rec := range records {
		e, ok := decodeRecord(rec)
		if !ok {
			dropped++
			continue
		}
		out = append(out, e)
	}
	return out, dropped, nil
}

func decodeRecord(rec json.RawMessage) (model.Entry, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(rec, &obj); err != nil || obj == nil {
		return model.Entry{}, false
	}
	vals := make(map[string]string, len(entryFields))
	for _, f := range entryFields {
		v, ok := obj[f]
		if !ok {
			return model.Entry{}, false
		}
		var str string
		// null would unmarshal into "" without error.
		if len(v) == 0 || v[0] != '"' || json.Unmarshal(v, &str) != nil {
			return model.Entry{}, false
		}
		vals[f] = str
	}
	return model.Entry{
		ID:        vals["id"],
		Name:      vals["name"],
		Date:      vals["date"],
		Yesterday: vals["yesterday"],
		Today:     vals["today"],
		Blockers:  vals["blockers"],
	}, true
}
