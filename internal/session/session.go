package session

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/catalog"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/repositories"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/stream"
)

// Snapshot is the combined read-model handed to the presentation
// layer: the current listing wrapped in its load state, plus the
// favorite and loading sets. Snapshots are value types; every field is
// a copy safe to retain.
type Snapshot struct {
	Filter    models.Filter
	Movies    stream.Envelope[[]models.Movie]
	Favorites stream.FavoriteState
}

// Opts configures a [Session].
type Opts struct {
	Catalog     catalog.Service
	Favorites   *repositories.FavoriteRepository // optional local persistence
	Logger      *log.Logger
	RetryPolicy stream.RetryPolicy
}

// Session composes the stream combinators into one live view of the
// catalog. One pagination activation exists per filter context;
// changing the filter cancels the old activation and starts a fresh
// one from page 1. A single toggle reducer spans the whole session.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	service catalog.Service
	repo    *repositories.FavoriteRepository
	logger  *log.Logger
	policy  stream.RetryPolicy

	filterc  chan models.Filter
	togglec  chan models.Movie
	advancec chan struct{}
	out      chan Snapshot
}

// activation is one filter context's pagination pipeline.
type activation struct {
	cancel    context.CancelFunc
	envelopes <-chan stream.Envelope[[]models.Movie]
}

// New creates a Session and immediately activates the initial filter.
// Callers must drain [Session.Snapshots] and call [Session.Close] when
// done.
func New(ctx context.Context, initial models.Filter, opts Opts) *Session {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.RetryPolicy == (stream.RetryPolicy{}) {
		opts.RetryPolicy = stream.DefaultRetryPolicy()
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ctx:      ctx,
		cancel:   cancel,
		service:  opts.Catalog,
		repo:     opts.Favorites,
		logger:   opts.Logger,
		policy:   opts.RetryPolicy,
		filterc:  make(chan models.Filter),
		togglec:  make(chan models.Movie),
		advancec: make(chan struct{}, 1),
		out:      make(chan Snapshot),
	}

	go s.run(initial)
	return s
}

// Snapshots returns the stream of combined snapshots. It closes when
// the session is closed.
func (s *Session) Snapshots() <-chan Snapshot {
	return s.out
}

// SetFilter switches the active filter context, resetting the
// accumulated listing and restarting pagination from page 1.
func (s *Session) SetFilter(filter models.Filter) {
	select {
	case s.filterc <- filter:
	case <-s.ctx.Done():
	}
}

// Advance requests the next page. The send is non-blocking: while a
// fetch is in flight, or an advance is already pending, further calls
// are absorbed.
func (s *Session) Advance() {
	select {
	case s.advancec <- struct{}{}:
	default:
	}
}

// Toggle requests a favorite toggle for the movie. A toggle for a
// movie whose request is still in flight is dropped by the reducer.
func (s *Session) Toggle(movie models.Movie) {
	select {
	case s.togglec <- movie:
	case <-s.ctx.Done():
	}
}

// Close tears the session down. All activations and in-flight work are
// cancelled; no background goroutines survive.
func (s *Session) Close() {
	s.cancel()
}

func (s *Session) run(initial models.Filter) {
	defer close(s.out)

	states := stream.ReduceToggles(s.ctx, stream.ToggleOpts[models.Movie]{
		Key:    func(m models.Movie) string { return m.ID },
		Toggle: s.toggle,
		Seed:   s.seedFavorites(),
	}, s.togglec)

	snap := Snapshot{
		Favorites: stream.FavoriteState{
			FavoriteIDs: s.seedFavorites(),
			Loading:     map[string]struct{}{},
		},
	}

	act := s.activate(initial)
	snap.Filter = initial
	defer func() { act.cancel() }()

	for {
		select {
		case <-s.ctx.Done():
			return

		case filter := <-s.filterc:
			act.cancel()
			// A pending advance belongs to the old context; drop it.
			select {
			case <-s.advancec:
			default:
			}
			act = s.activate(filter)
			snap.Filter = filter

		case env, ok := <-act.envelopes:
			if !ok {
				// Activation finished (catalog exhausted or terminal
				// error already emitted). Stay on the last snapshot.
				act.envelopes = nil
				continue
			}
			snap.Movies = env
			if env.Err != nil {
				s.logger.Error("listing failed", "filter", snap.Filter, "err", env.Err)
			}
			if !s.push(snap) {
				return
			}

		case state, ok := <-states:
			if !ok {
				states = nil
				continue
			}
			if state.LastErr != nil {
				s.logger.Error("favorite toggle failed", "err", state.LastErr)
			}
			snap.Favorites = state
			if !s.push(snap) {
				return
			}
		}
	}
}

// activate starts a pagination pipeline for one filter context.
func (s *Session) activate(filter models.Filter) activation {
	actCtx, cancel := context.WithCancel(s.ctx)

	fetch := func(ctx context.Context, page int) ([]models.Movie, error) {
		result, err := s.service.FetchPage(ctx, filter, page)
		if err != nil {
			return nil, err
		}
		return result.Movies, nil
	}

	subscribe := func(ctx context.Context) <-chan stream.Result[[]models.Movie] {
		return stream.Paginate(ctx, fetch, s.advancec)
	}

	return activation{
		cancel:    cancel,
		envelopes: stream.Suspensify(actCtx, []models.Movie{}, s.policy, subscribe),
	}
}

// toggle is the reducer's toggle function: the catalog call plus a
// write-through to local persistence on success.
func (s *Session) toggle(ctx context.Context, movie models.Movie) (bool, error) {
	favorite, err := s.service.ToggleFavorite(ctx, movie)
	if err != nil {
		return false, err
	}

	if s.repo != nil {
		if err := s.repo.Set(movie.ID, movie.Title, favorite); err != nil {
			s.logger.Warn("failed to persist favorite", "movie", movie.ID, "err", err)
		}
	}
	return favorite, nil
}

func (s *Session) seedFavorites() map[string]struct{} {
	if s.repo == nil {
		return nil
	}
	ids, err := s.repo.IDs()
	if err != nil {
		s.logger.Warn("failed to load persisted favorites", "err", err)
		return nil
	}
	return ids
}

func (s *Session) push(snap Snapshot) bool {
	select {
	case s.out <- snap:
		return true
	case <-s.ctx.Done():
		return false
	}
}
