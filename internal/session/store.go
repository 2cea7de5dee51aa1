// Package session holds the period state of each dashboard session and keeps
// its two mirrors, persisted storage and the page URL, in sync.
package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/apodata/apodata/backend-go/internal/domain"
	"github.com/apodata/apodata/backend-go/internal/period"
	"github.com/rs/zerolog/log"
)

// Navigator is the page location of a session. Replace performs a
// navigation replace, never a reload.
type Navigator interface {
	Query() url.Values
	Replace(query url.Values)
}

// QueryNavigator is a Navigator over a known query string that records the
// replacement so it can be sent back to the client.
type QueryNavigator struct {
	current  url.Values
	replaced bool
}

func NewQueryNavigator(query url.Values) *QueryNavigator {
	if query == nil {
		query = url.Values{}
	}
	return &QueryNavigator{current: cloneQuery(query)}
}

func (n *QueryNavigator) Query() url.Values {
	return cloneQuery(n.current)
}

func (n *QueryNavigator) Replace(query url.Values) {
	n.current = cloneQuery(query)
	n.replaced = true
}

// Replaced reports whether a navigation happened.
func (n *QueryNavigator) Replaced() bool {
	return n.replaced
}

// Encode returns the current query string.
func (n *QueryNavigator) Encode() string {
	return n.current.Encode()
}

// Options configures a Store.
type Options struct {
	// Now defaults to time.Now.
	Now func() time.Time
	// Location is the timezone "today" is taken in. Nil keeps the clock's.
	Location          *time.Location
	DefaultPreset     period.Preset
	DefaultComparison period.ComparisonType
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.DefaultPreset == "" {
		o.DefaultPreset = period.DefaultPreset
	}
	if o.DefaultComparison == "" {
		o.DefaultComparison = period.DefaultComparison
	}
	return o
}

// State is the resolved period state of a session.
type State struct {
	Primary    period.ResolvedPeriod
	Comparison period.ResolvedComparison
}

// View flattens the state into the shape dashboard pages consume.
func (s State) View() domain.PeriodView {
	return domain.PeriodView{
		Range:                  string(s.Primary.Preset),
		StartDate:              s.Primary.StartDate,
		EndDate:                s.Primary.EndDate,
		DisplayLabel:           s.Primary.Label,
		ComparisonRange:        string(s.Comparison.Type),
		ComparisonStartDate:    s.Comparison.StartDate,
		ComparisonEndDate:      s.Comparison.EndDate,
		ComparisonDisplayLabel: s.Comparison.Label,
	}
}

// Store owns the period state of one session. Storage and the URL are
// written only from SetPrimaryRange and SetComparisonRange; storage is read
// once, on initialisation.
type Store struct {
	mu      sync.Mutex
	id      string
	storage Storage
	opts    Options

	ready      bool
	primary    primarySelection
	comparison comparisonSelection
}

// NewStore creates an uninitialised store for sessionID.
func NewStore(sessionID string, storage Storage, opts Options) *Store {
	return &Store{
		id:      sessionID,
		storage: storage,
		opts:    opts.withDefaults(),
	}
}

// ID returns the session the store belongs to.
func (s *Store) ID() string {
	return s.id
}

// Init brings the store to its ready state. On first call each period is
// taken from the URL query, else from storage, else from the defaults.
// Later calls apply whatever period params the query carries, as a page
// navigation would, and leave the rest of the state alone. A navigation is
// not written to storage: it lives as long as this store, and the client's
// URL keeps carrying it. Only SetPrimaryRange and SetComparisonRange persist.
func (s *Store) Init(ctx context.Context, query url.Values) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		s.initialize(ctx, query)
	} else {
		s.navigate(query)
	}
	return s.resolve()
}

// State returns the current state, initialising from storage if needed.
func (s *Store) State(ctx context.Context) State {
	return s.Init(ctx, nil)
}

// SetPrimaryRange selects a new primary period. start and end are only used
// for period.PresetCustom and are not validated. Unless the comparison is
// custom it is recomputed from the new primary dates in the same pass.
func (s *Store) SetPrimaryRange(ctx context.Context, nav Navigator, preset period.Preset, start, end string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureReady(ctx, nav)

	s.primary = primarySelection{preset: preset}
	if preset == period.PresetCustom {
		s.primary.startDate = start
		s.primary.endDate = end
	}
	state := s.resolve()
	followComparison := s.comparison.typ != period.ComparisonCustom

	w := newWrites()
	w.primary(state.Primary)
	if followComparison {
		w.comparison(state.Comparison)
	}
	s.save(ctx, w)

	if nav != nil {
		q := nav.Query()
		writePrimaryParams(q, state.Primary)
		if followComparison {
			writeComparisonParams(q, state.Comparison)
		}
		nav.Replace(q)
	}

	log.Debug().
		Str("session", s.id).
		Str("range", string(preset)).
		Str("label", state.Primary.Label).
		Msg("period: primary range updated")
	return state
}

// SetComparisonRange selects a new comparison period relative to the
// current primary one. Primary keys and params are left untouched.
func (s *Store) SetComparisonRange(ctx context.Context, nav Navigator, typ period.ComparisonType, start, end string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureReady(ctx, nav)

	s.comparison = comparisonSelection{typ: typ}
	if typ == period.ComparisonCustom {
		s.comparison.startDate = start
		s.comparison.endDate = end
	}
	state := s.resolve()

	w := newWrites()
	w.comparison(state.Comparison)
	s.save(ctx, w)

	if nav != nil {
		q := nav.Query()
		writeComparisonParams(q, state.Comparison)
		nav.Replace(q)
	}

	log.Debug().
		Str("session", s.id).
		Str("range", string(typ)).
		Str("label", state.Comparison.Label).
		Msg("period: comparison range updated")
	return state
}

func (s *Store) ensureReady(ctx context.Context, nav Navigator) {
	if s.ready {
		return
	}
	var q url.Values
	if nav != nil {
		q = nav.Query()
	}
	s.initialize(ctx, q)
}

func (s *Store) initialize(ctx context.Context, query url.Values) {
	primary, okPrimary := primaryFromQuery(query)
	comparison, okComparison := comparisonFromQuery(query)

	if !okPrimary || !okComparison {
		stored := s.load(ctx)
		if !okPrimary {
			primary, okPrimary = primaryFromStorage(stored)
		}
		if !okComparison {
			comparison, okComparison = comparisonFromStorage(stored)
		}
	}
	if !okPrimary {
		primary = primarySelection{preset: s.opts.DefaultPreset}
	}
	if !okComparison {
		comparison = comparisonSelection{typ: s.opts.DefaultComparison}
	}

	s.primary = primary
	s.comparison = comparison
	s.ready = true
}

func (s *Store) navigate(query url.Values) {
	if p, ok := primaryFromQuery(query); ok {
		s.primary = p
	}
	if c, ok := comparisonFromQuery(query); ok {
		s.comparison = c
	}
}

// resolve recomputes dates from the selections. Presets are resolved against
// the clock every time, so "this month" follows the calendar.
func (s *Store) resolve() State {
	today := period.Today(s.opts.Now(), s.opts.Location)
	primary := period.ResolvePrimary(s.primary.preset, today, s.primary.startDate, s.primary.endDate)

	var comparison period.ResolvedComparison
	if s.comparison.typ == period.ComparisonCustom {
		comparison = period.ResolveCustomComparison(s.comparison.startDate, s.comparison.endDate)
	} else {
		var err error
		comparison, err = period.ResolveComparison(s.comparison.typ, primary.Range)
		if err != nil {
			log.Warn().Err(err).Str("session", s.id).Msg("period: comparison unresolved")
			comparison = period.Unresolved(s.comparison.typ)
		}
	}
	return State{Primary: primary, Comparison: comparison}
}

func (s *Store) load(ctx context.Context) map[string]string {
	if s.storage == nil {
		return nil
	}
	stored, err := s.storage.Load(ctx, s.id)
	if err != nil {
		log.Warn().Err(err).Str("session", s.id).Msg("period: storage load failed, using defaults")
		return nil
	}
	return stored
}

func (s *Store) save(ctx context.Context, w *writes) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Save(ctx, s.id, w.set, w.clear); err != nil {
		log.Warn().Err(err).Str("session", s.id).Msg("period: storage save failed")
	}
}
