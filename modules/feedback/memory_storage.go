package feedback

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryStorage keeps records in process memory. Used when no document
// store is configured and in tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]Record
	seq     map[string]int
	next    int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]Record),
		seq:     make(map[string]int),
	}
}

func (m *MemoryStorage) Insert(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.ID] = cloneRecord(rec)
	m.seq[rec.ID] = m.next
	m.next++
	return nil
}

func (m *MemoryStorage) FindByID(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (m *MemoryStorage) Find(ctx context.Context, f Filter) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		if matches(rec, f) {
			out = append(out, cloneRecord(rec))
		}
	}

	slices.SortFunc(out, func(a, b Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(m.seq[b.ID], m.seq[a.ID])
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryStorage) Update(ctx context.Context, id string, u Update) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}

	if u.Status != nil {
		rec.Status = *u.Status
	}
	if u.ReviewedAt != nil {
		at := *u.ReviewedAt
		rec.ReviewedAt = &at
	}
	if u.ReviewedBy != nil {
		rec.ReviewedBy = *u.ReviewedBy
	}
	if u.EmailsSent != nil {
		rec.EmailsSent = *u.EmailsSent
	}
	if !u.UpdatedAt.IsZero() {
		rec.UpdatedAt = u.UpdatedAt
	}

	m.records[id] = rec
	return cloneRecord(rec), nil
}

func (m *MemoryStorage) CountByType(ctx context.Context, applicationName string) ([]TypeStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make(map[Type]*TypeStat)
	for _, rec := range m.records {
		if applicationName != "" && rec.Context.ApplicationName != applicationName {
			continue
		}
		g, ok := groups[rec.Feedback.Type]
		if !ok {
			g = &TypeStat{Type: rec.Feedback.Type}
			groups[rec.Feedback.Type] = g
		}
		g.Count++
		g.RatingSum += rec.Feedback.Rating
	}

	out := make([]TypeStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b TypeStat) int { return cmp.Compare(a.Type, b.Type) })
	return out, nil
}

func matches(rec Record, f Filter) bool {
	switch {
	case f.ApplicationName != "" && rec.Context.ApplicationName != f.ApplicationName:
		return false
	case f.FeatureName != "" && rec.Context.FeatureName != f.FeatureName:
		return false
	case f.Type != "" && rec.Feedback.Type != f.Type:
		return false
	case f.MinRating != nil && rec.Feedback.Rating < *f.MinRating:
		return false
	case f.MaxRating != nil && rec.Feedback.Rating > *f.MaxRating:
		return false
	}
	return true
}

func cloneRecord(rec Record) Record {
	if rec.ReviewedAt != nil {
		at := *rec.ReviewedAt
		rec.ReviewedAt = &at
	}
	if rec.Metadata != nil {
		md := *rec.Metadata
		md.Tags = slices.Clone(md.Tags)
		md.Attachments = slices.Clone(md.Attachments)
		md.CustomFields = maps.Clone(md.CustomFields)
		rec.Metadata = &md
	}
	return rec
}

var _ Storage = (*MemoryStorage)(nil)
