package report

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/analytics"
	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/loader"
	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Filter narrows a series before analysis. Zero values leave the series
// untouched: a zero From/To skips the date-range filter, an empty Weekday
// skips the weekday filter.
type Filter struct {
	From    time.Time
	To      time.Time
	Weekday string
}

// Apply returns the filtered series. An unknown weekday name is an error.
func (f Filter) Apply(s timeseries.Series) (timeseries.Series, error) {
	if !f.From.IsZero() || !f.To.IsZero() {
		to := f.To
		if to.IsZero() {
			// Far-future sentinel; the range filter is inclusive.
			to = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		}
		s = s.FilterRange(f.From, to)
	}

	if f.Weekday != "" {
		wd, err := parseWeekday(f.Weekday)
		if err != nil {
			return timeseries.Series{}, err
		}
		s = s.FilterWeekday(wd)
	}
	return s, nil
}

// Service owns the loaded strategy logs and produces reports over them.
// It is safe for concurrent use; Refresh swaps the whole map atomically
// under the lock.
type Service struct {
	dataDir string
	schema  loader.Schema
	riskCfg analytics.RiskConfig

	mu     sync.RWMutex
	series map[string]timeseries.Series

	hub  *Hub
	cron *cron.Cron
}

// NewService creates a Service over a data directory. Call Refresh to
// perform the initial load.
func NewService(dataDir string, schema loader.Schema, riskCfg analytics.RiskConfig) *Service {
	return &Service{
		dataDir: dataDir,
		schema:  schema,
		riskCfg: riskCfg,
		series:  make(map[string]timeseries.Series),
		hub:     NewHub(),
	}
}

// Hub returns the websocket hub used for pushing refreshed reports.
func (s *Service) Hub() *Hub { return s.hub }

// Schema returns the CSV schema the service loads and exports with.
func (s *Service) Schema() loader.Schema { return s.schema }

// Refresh re-scans the data directory and swaps in the freshly loaded
// series. Connected websocket clients receive the rebuilt reports.
func (s *Service) Refresh() error {
	loaded, err := loader.LoadDir(s.dataDir, s.schema)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.series = loaded
	s.mu.Unlock()

	log.Info().Int("strategies", len(loaded)).Str("dir", s.dataDir).Msg("data refreshed")

	if s.hub.Len() > 0 {
		for _, name := range loader.Strategies(loaded) {
			s.hub.Broadcast(Build(name, loaded[name], s.riskCfg))
		}
	}
	return nil
}

// StartRefresh schedules periodic Refresh calls with a cron spec that
// includes a seconds field. It returns after scheduling; Stop cancels it.
func (s *Service) StartRefresh(spec string) error {
	if s.cron != nil {
		return fmt.Errorf("refresh already started")
	}

	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(spec, func() {
		if err := s.Refresh(); err != nil {
			log.Error().Err(err).Msg("scheduled refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule refresh %q: %w", spec, err)
	}

	s.cron = c
	c.Start()
	log.Info().Str("spec", spec).Msg("refresh scheduler started")
	return nil
}

// Stop cancels the refresh schedule and disconnects websocket clients.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.hub.Close()
}

// Strategies returns the sorted names of the loaded strategy logs.
func (s *Service) Strategies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.series))
	for name := range s.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the series for a strategy name.
func (s *Service) Get(name string) (timeseries.Series, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	series, ok := s.series[name]
	return series, ok
}

// Report builds the full analytics document for one strategy, applying the
// filter first.
func (s *Service) Report(name string, f Filter) (*Report, error) {
	series, ok := s.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}

	filtered, err := f.Apply(series)
	if err != nil {
		return nil, err
	}
	return Build(name, filtered, s.riskCfg), nil
}

// Series returns the filtered series for a strategy, for consumers such as
// the export endpoint.
func (s *Service) Series(name string, f Filter) (timeseries.Series, error) {
	series, ok := s.Get(name)
	if !ok {
		return timeseries.Series{}, fmt.Errorf("unknown strategy %q", name)
	}
	return f.Apply(series)
}

// parseWeekday maps a weekday name (e.g. "Monday") to time.Weekday.
func parseWeekday(name string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if wd.String() == name {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
