package suggestion

import (
	"context"
	"log"
	"time"

	"shopfloor/pkg/protocol"
)

// RefreshInterval is how long a cached suggestion list stays valid. The
// service refreshes lazily on read rather than on a background timer so the
// station owns no extra goroutine.
const RefreshInterval = 30 * time.Second

// InteractionRecorder is the learning-log hook for accept/dismiss mirrors.
// Satisfied by *learning.Recorder.
type InteractionRecorder interface {
	RecordSuggestionInteraction(suggestionID, action, module string, ctxMap map[string]string)
}

// Service layers caching and interaction mirroring over a Store for one
// station's operational category.
type Service struct {
	store    *Store
	recorder InteractionRecorder
	module   string
	category string

	cached    []protocol.Suggestion
	fetchedAt time.Time
	nowFunc   func() time.Time
}

// NewService creates a Service scoped to one module/category. recorder may
// be nil, in which case interactions are not mirrored.
func NewService(store *Store, recorder InteractionRecorder, module, category string) *Service {
	return &Service{
		store:    store,
		recorder: recorder,
		module:   module,
		category: category,
		nowFunc:  time.Now,
	}
}

// Suggestions returns the active suggestion list, refreshing from the store
// when the cache has expired. Query failures fall back to the last good
// list: suggestions are advisory and must never take the station down.
func (s *Service) Suggestions(ctx context.Context) []protocol.Suggestion {
	now := s.nowFunc()
	if !s.fetchedAt.IsZero() && now.Sub(s.fetchedAt) < RefreshInterval {
		return s.cached
	}
	list, err := s.store.List(ctx, s.category)
	if err != nil {
		log.Printf("suggestion: refresh failed: %v", err)
		return s.cached
	}
	s.cached = list
	s.fetchedAt = now
	return s.cached
}

// byType filters the active list to one suggestion type.
func (s *Service) byType(ctx context.Context, t protocol.SuggestionType) []protocol.Suggestion {
	var out []protocol.Suggestion
	for _, sg := range s.Suggestions(ctx) {
		if sg.Type == t {
			out = append(out, sg)
		}
	}
	return out
}

// Warnings returns the active warning suggestions.
func (s *Service) Warnings(ctx context.Context) []protocol.Suggestion {
	return s.byType(ctx, protocol.SuggestionWarning)
}

// Actions returns the active next-action suggestions.
func (s *Service) Actions(ctx context.Context) []protocol.Suggestion {
	return s.byType(ctx, protocol.SuggestionNextAction)
}

// Learnings returns the active learning suggestions.
func (s *Service) Learnings(ctx context.Context) []protocol.Suggestion {
	return s.byType(ctx, protocol.SuggestionLearning)
}

// Optimizations returns the active optimization suggestions.
func (s *Service) Optimizations(ctx context.Context) []protocol.Suggestion {
	return s.byType(ctx, protocol.SuggestionOptimization)
}

// Accept marks a suggestion accepted and mirrors the interaction. The cache
// is invalidated so the item disappears from the next read.
func (s *Service) Accept(ctx context.Context, id string) error {
	return s.resolve(ctx, id, protocol.StatusAccepted, protocol.ActionAccepted)
}

// Dismiss marks a suggestion dismissed and mirrors the interaction.
func (s *Service) Dismiss(ctx context.Context, id string) error {
	return s.resolve(ctx, id, protocol.StatusDismissed, protocol.ActionDismissed)
}

func (s *Service) resolve(ctx context.Context, id string, status protocol.SuggestionStatus, action string) error {
	ok, err := s.store.Resolve(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		// Unknown id: stale UI state, nothing to mirror.
		return nil
	}
	s.Invalidate()
	if s.recorder != nil {
		s.recorder.RecordSuggestionInteraction(id, action, s.module, nil)
	}
	return nil
}

// MarkShown records that a suggestion was displayed to an operator. Shows
// are local bookkeeping: the status row is updated but no interaction is
// mirrored to the learning log.
func (s *Service) MarkShown(ctx context.Context, id, shownTo string) error {
	ok, err := s.store.MarkShown(ctx, id, shownTo)
	if err != nil {
		return err
	}
	if ok {
		s.Invalidate()
	}
	return nil
}

// Invalidate drops the cached list so the next read hits the store.
func (s *Service) Invalidate() {
	s.fetchedAt = time.Time{}
	s.cached = nil
}
