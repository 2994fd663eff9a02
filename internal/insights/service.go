package insights

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/budgetwatch/internal/analytics"
	"github.com/cleared-dev/budgetwatch/internal/model"
	"github.com/cleared-dev/budgetwatch/internal/storage"
)

// Storage keys.
const (
	KeyVisible   = "budget_insights"
	KeyDismissed = "budget_insights_deleted"
	KeyTxKeys    = "budget_tx_keys_v1"
)

// Generator produces raw insights from a transaction snapshot.
type Generator interface {
	Generate(txns []model.Transaction, now time.Time, previousKeys []string) analytics.Result
}

// Dismissal records where a dismissed insight sat so it can be restored.
type Dismissal struct {
	Insight model.Insight `json:"insight"`
	Index   int           `json:"index"`
}

// Service owns the persisted insight state.
type Service struct {
	store storage.Store
	gen   Generator
	log   zerolog.Logger

	// mu orders dismiss and undo against the filter step of Refresh.
	mu sync.Mutex
}

// NewService creates a Service.
func NewService(store storage.Store, gen Generator, log zerolog.Logger) *Service {
	return &Service{store: store, gen: gen, log: log}
}

// Refresh regenerates insights for txns, stores the new transaction
// fingerprint snapshot and returns the visible list. The dismissed set is
// read after generation so a dismissal made in the meantime is honored.
func (s *Service) Refresh(txns []model.Transaction, now time.Time) []model.Insight {
	prev := storage.ReadJSON[[]string](s.store, s.log, KeyTxKeys)
	res := s.gen.Generate(txns, now, prev)
	storage.WriteJSON(s.store, s.log, KeyTxKeys, res.Keys)

	s.mu.Lock()
	defer s.mu.Unlock()

	dismissed := s.dismissed()
	visible := Reconcile(res.Insights, dismissed)
	storage.WriteJSON(s.store, s.log, KeyVisible, visible)

	s.log.Debug().Int("raw", len(res.Insights)).Int("dismissed", len(dismissed)).
		Int("visible", len(visible)).Msg("insights refreshed")
	return visible
}

// Dismiss hides in and returns the record needed to undo it. Dismissing an
// already dismissed insight is a no-op on the dismissed set. If in is not in
// the visible cache its index is the end of the list.
func (s *Service) Dismiss(in model.Insight) Dismissal {
	s.mu.Lock()
	defer s.mu.Unlock()

	dismissed := s.dismissed()
	if !slices.Contains(dismissed, in.ID) {
		dismissed = append(dismissed, in.ID)
		storage.WriteJSON(s.store, s.log, KeyDismissed, dismissed)
	}

	visible := s.visible()
	idx := indexOf(visible, in.ID)
	if idx < 0 {
		idx = len(visible)
	} else {
		in = visible[idx]
		visible = slices.Delete(visible, idx, idx+1)
		storage.WriteJSON(s.store, s.log, KeyVisible, visible)
	}

	s.log.Info().Str("insight_id", in.ID).Int("index", idx).Msg("insight dismissed")
	return Dismissal{Insight: in, Index: idx}
}

// Undo reverses d and returns the updated visible list. The insight goes
// back at its original index, clamped to the current list length. It is not
// inserted twice.
func (s *Service) Undo(d Dismissal) []model.Insight {
	s.mu.Lock()
	defer s.mu.Unlock()

	dismissed := s.dismissed()
	if slices.Contains(dismissed, d.Insight.ID) {
		dismissed = slices.DeleteFunc(dismissed, func(id string) bool { return id == d.Insight.ID })
		storage.WriteJSON(s.store, s.log, KeyDismissed, dismissed)
	}

	visible := s.visible()
	if indexOf(visible, d.Insight.ID) >= 0 {
		return visible
	}
	at := clamp(d.Index, 0, len(visible))
	visible = slices.Insert(visible, at, d.Insight)
	storage.WriteJSON(s.store, s.log, KeyVisible, visible)

	s.log.Info().Str("insight_id", d.Insight.ID).Int("index", at).Msg("dismissal undone")
	return visible
}

// Visible returns the cached visible list from the last refresh.
func (s *Service) Visible() []model.Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible()
}

// Dismissed returns the dismissed insight ids.
func (s *Service) Dismissed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dismissed()
}

// Find looks up a visible insight by id.
func (s *Service) Find(id string) (model.Insight, bool) {
	visible := s.Visible()
	if i := indexOf(visible, id); i >= 0 {
		return visible[i], true
	}
	return model.Insight{}, false
}

func (s *Service) visible() []model.Insight {
	return storage.ReadJSON[[]model.Insight](s.store, s.log, KeyVisible)
}

func (s *Service) dismissed() []string {
	return storage.ReadJSON[[]string](s.store, s.log, KeyDismissed)
}
