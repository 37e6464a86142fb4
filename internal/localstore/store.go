package localstore

import (
	"context"
	"fmt"
	"sync"

	"weekly-tracker/internal/dates"
	"weekly-tracker/internal/domain/tracker"
	"weekly-tracker/pkg/logger"
)

// Store keeps the whole tracker in one JSON document behind a Storage.
// Every operation runs load, mutate and save under a single mutex.
type Store struct {
	storage Storage
	key     string
	log     logger.Logger

	mu    sync.Mutex
	cache *document
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

func New(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ tracker.Store = (*Store)(nil)

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = nil
	return s.storage.Close()
}

// load returns the cached document, reading storage on a miss. Missing or
// malformed content yields an empty document.
func (s *Store) load(ctx context.Context) (*document, error) {
	if s.cache != nil {
		return s.cache, nil
	}

	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}

	doc := emptyDocument()
	if found && len(raw) > 0 {
		parsed, err := decodeDocument(raw)
		if err != nil {
			s.log.Warn("localstore: discarding unreadable document", "key", s.key, "err", err)
		} else {
			doc = parsed
		}
	}

	s.cache = doc
	return doc, nil
}

// mutate applies fn to a private copy of the document and persists it. Once
// fn succeeds the cache is dropped and the next read goes to storage.
func (s *Store) mutate(ctx context.Context, fn func(doc *document) error) error {
	current, err := s.load(ctx)
	if err != nil {
		return err
	}

	doc := current.clone()
	if err := fn(doc); err != nil {
		return err
	}

	s.cache = nil
	raw, err := doc.encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.storage.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) CreateWeek(ctx context.Context, date dates.Date) (*tracker.Week, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: week_start_date is required", tracker.ErrInvalidInput)
	}
	monday := dates.MondayOf(date)

	s.mu.Lock()
	defer s.mu.Unlock()

	var week tracker.Week
	err := s.mutate(ctx, func(doc *document) error {
		for _, existing := range doc.Weeks {
			if existing.WeekStartDate.Equal(monday) {
				return tracker.ErrDuplicateWeek
			}
		}

		week = tracker.Week{ID: doc.nextWeekID(), WeekStartDate: monday}
		doc.Weeks = append(doc.Weeks, week)
		doc.sortWeeks()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &week, nil
}

func (s *Store) ListWeeks(ctx context.Context, date *dates.Date) ([]tracker.Week, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if date == nil {
		return append([]tracker.Week{}, doc.Weeks...), nil
	}

	monday := dates.MondayOf(*date)
	for _, week := range doc.Weeks {
		if week.WeekStartDate.Equal(monday) {
			return []tracker.Week{week}, nil
		}
	}
	return []tracker.Week{}, nil
}

func (s *Store) GetWeek(ctx context.Context, weekID int64) (*tracker.Week, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}

	idx := doc.weekIndex(weekID)
	if idx < 0 {
		return nil, false, nil
	}
	week := doc.Weeks[idx]
	return &week, true, nil
}

func (s *Store) GetWeekGrid(ctx context.Context, weekID int64) (*tracker.WeekGrid, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}

	idx := doc.weekIndex(weekID)
	if idx < 0 {
		return nil, false, nil
	}

	grid := tracker.BuildGrid(doc.Weeks[idx], doc.WeeklyItems, doc.DailyChecks)
	return &grid, true, nil
}

func (s *Store) DeleteWeek(ctx context.Context, weekID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, func(doc *document) error {
		idx := doc.weekIndex(weekID)
		if idx < 0 {
			return tracker.ErrWeekNotFound
		}

		owned := make(map[int64]struct{})
		items := make([]tracker.WeeklyItem, 0, len(doc.WeeklyItems))
		for _, item := range doc.WeeklyItems {
			if item.WeekID == weekID {
				owned[item.ID] = struct{}{}
				continue
			}
			items = append(items, item)
		}
		doc.WeeklyItems = items
		doc.removeChecks(owned)
		doc.Weeks = append(doc.Weeks[:idx], doc.Weeks[idx+1:]...)
		return nil
	})
}

func (s *Store) CreateItem(ctx context.Context, weekID int64, input tracker.CreateItemInput) (*tracker.GridItem, error) {
	input, err := input.Normalize()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result *tracker.GridItem
	err = s.mutate(ctx, func(doc *document) error {
		weekIdx := doc.weekIndex(weekID)
		if weekIdx < 0 {
			return tracker.ErrWeekNotFound
		}

		order := doc.itemCount(weekID)
		if input.OrderIndex != nil {
			order = *input.OrderIndex
		}

		item := tracker.WeeklyItem{
			ID:         doc.nextItemID(),
			WeekID:     weekID,
			Name:       input.Name,
			Category:   input.Category,
			OrderIndex: order,
		}
		doc.WeeklyItems = append(doc.WeeklyItems, item)

		result, err = gridItem(doc, doc.Weeks[weekIdx], item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) UpdateItem(ctx context.Context, itemID int64, input tracker.UpdateItemInput) (*tracker.GridItem, error) {
	input, err := input.Normalize()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result *tracker.GridItem
	err = s.mutate(ctx, func(doc *document) error {
		idx := doc.itemIndex(itemID)
		if idx < 0 {
			return tracker.ErrItemNotFound
		}

		item := &doc.WeeklyItems[idx]
		input.Apply(item)

		weekIdx := doc.weekIndex(item.WeekID)
		if weekIdx < 0 {
			return tracker.ErrWeekNotFound
		}

		result, err = gridItem(doc, doc.Weeks[weekIdx], itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) DeleteItem(ctx context.Context, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, func(doc *document) error {
		idx := doc.itemIndex(itemID)
		if idx < 0 {
			return tracker.ErrItemNotFound
		}

		doc.WeeklyItems = append(doc.WeeklyItems[:idx], doc.WeeklyItems[idx+1:]...)
		doc.removeChecks(map[int64]struct{}{itemID: {}})
		return nil
	})
}

func (s *Store) UpsertCheck(ctx context.Context, input tracker.UpsertCheckInput) (*tracker.GridCheck, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var check tracker.DailyCheck
	err := s.mutate(ctx, func(doc *document) error {
		if doc.itemIndex(input.WeeklyItemID) < 0 {
			return tracker.ErrItemNotFound
		}

		for i := range doc.DailyChecks {
			existing := &doc.DailyChecks[i]
			if existing.WeeklyItemID != input.WeeklyItemID || !existing.Date.Equal(input.Date) {
				continue
			}
			existing.Status = input.Status
			existing.Minutes = input.Minutes
			existing.Note = input.Note
			check = *existing
			return nil
		}

		check = tracker.DailyCheck{
			ID:           doc.nextCheckID(),
			WeeklyItemID: input.WeeklyItemID,
			Date:         input.Date,
			Status:       input.Status,
			Minutes:      input.Minutes,
			Note:         input.Note,
		}
		doc.DailyChecks = append(doc.DailyChecks, check)
		return nil
	})
	if err != nil {
		return nil, err
	}

	cell := check.GridCheck()
	return &cell, nil
}

func gridItem(doc *document, week tracker.Week, itemID int64) (*tracker.GridItem, error) {
	grid := tracker.BuildGrid(week, doc.WeeklyItems, doc.DailyChecks)
	item, ok := grid.Item(itemID)
	if !ok {
		return nil, tracker.ErrItemNotFound
	}
	return item, nil
}
