package listingsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

// PageSize - фиксированный размер страницы удаленного источника
const PageSize = 20

// ErrStaleResponse - ответ пришел после запуска более нового запроса и отброшен
var ErrStaleResponse = errors.New("stale fetch response discarded")

type FetchRequest struct {
	// Page начинается с 1
	Page    int
	Append  bool
	Bounds  *domain.MapBounds
	Filters domain.FilterState
}

// Fetcher загружает страницы карточек в Store. Подписчики Store не должны вызывать Fetcher синхронно.
// Каждый запрос получает номер поколения; новый запрос отменяет контекст предыдущего,
// а ответ устаревшего поколения не трогает состояние.
type Fetcher struct {
	source port.ListingSourcePort
	store  *Store

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewFetcher(source port.ListingSourcePort, store *Store) *Fetcher {
	return &Fetcher{source: source, store: store}
}

// Fetch загружает страницу req.Page и возвращает полученные строки.
// Если total уже известен и смещение за его пределами, запрос не выполняется.
// Ошибка источника логируется и переводит hasMore в false; вызывающему возвращается пустой список и ошибка.
func (f *Fetcher) Fetch(ctx context.Context, req FetchRequest) ([]domain.Listing, error) {
	if req.Page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", domain.ErrInvalidInput)
	}
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ListingFetcher",
		"page":      req.Page,
		"append":    req.Append,
	})

	offset := (req.Page - 1) * PageSize

	f.mu.Lock()
	// запрос без обращения к источнику не вытесняет выполняющийся
	snapshot := f.store.Snapshot().Listings
	if req.Page > 1 && snapshot.TotalKnown && offset >= snapshot.TotalCount {
		inFlight := f.cancel != nil
		if !inFlight {
			f.store.stopPaging()
		}
		f.mu.Unlock()
		logger.Debug("Offset beyond known total, skipping remote call", port.Fields{
			"offset": offset, "total": snapshot.TotalCount, "in_flight": inFlight,
		})
		return []domain.Listing{}, nil
	}

	f.gen++
	gen := f.gen
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.store.setLoading(true)
	f.mu.Unlock()
	defer cancel()

	page, err := f.source.FetchPage(fetchCtx, port.ListingQuery{
		Filters: req.Filters,
		Bounds:  req.Bounds,
		Offset:  offset,
		Limit:   PageSize,
	})

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		logger.Debug("Discarding stale fetch response", port.Fields{"generation": gen, "current_generation": f.gen})
		return nil, ErrStaleResponse
	}
	f.cancel = nil

	if err != nil {
		logger.Error("Failed to fetch listings", err, nil)
		f.store.stopPaging()
		return []domain.Listing{}, fmt.Errorf("fetch listings page %d: %w", req.Page, err)
	}

	accumulated := len(page.Listings)
	if req.Append {
		accumulated += len(snapshot.All)
	}
	hasMore := len(page.Listings) > 0 && accumulated < page.TotalCount && len(page.Listings) == PageSize

	f.store.applyPage(req.Page, page.Listings, req.Append, page.TotalCount, hasMore)
	logger.Debug("Listings page applied", port.Fields{"returned": len(page.Listings), "total": page.TotalCount, "has_more": hasMore})

	return page.Listings, nil
}

// Refresh загружает первую страницу с текущими фильтрами и границами, заменяя загруженное
func (f *Fetcher) Refresh(ctx context.Context) ([]domain.Listing, error) {
	st := f.store.Snapshot()
	return f.Fetch(ctx, FetchRequest{Page: 1, Bounds: st.Map.Bounds, Filters: st.Filters})
}

// LoadMore дозагружает следующую страницу, если она есть
func (f *Fetcher) LoadMore(ctx context.Context) ([]domain.Listing, error) {
	st := f.store.Snapshot()
	if st.Listings.TotalKnown && !st.Listings.HasMore {
		return []domain.Listing{}, nil
	}
	return f.Fetch(ctx, FetchRequest{
		Page:    st.Listings.Page + 1,
		Append:  true,
		Bounds:  st.Map.Bounds,
		Filters: st.Filters,
	})
}

// Cancel отменяет текущий запрос; его ответ будет отброшен
func (f *Fetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
		f.store.setLoading(false)
	}
}
