package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"stock_watch/internal/models"
	"stock_watch/pkg/logger"
	"stock_watch/pkg/tracing"

	"golang.org/x/sync/errgroup"
)

// SymbolStore то, что движку нужно от хранилища watch-list.
type SymbolStore interface {
	ListSymbols(ctx context.Context) ([]models.TrackedSymbol, error)
	AddSymbol(ctx context.Context, code string) error
	RemoveSymbol(ctx context.Context, code string) error
}

// MarketLookup то, что движку нужно от провайдера котировок. (nil, nil) = Absent.
type MarketLookup interface {
	FetchMetrics(ctx context.Context, code string) (*models.MetricsRecord, error)
}

type Options struct {
	// MaxConcurrency ограничивает параллельные запросы к провайдеру, 0 = без лимита
	MaxConcurrency int
	// LookupTimeout на один тикер, 0 = без таймаута
	LookupTimeout time.Duration
	// ValidateOnAdd: добавлять код только если провайдер знает о нём
	ValidateOnAdd bool
}

// Engine владеет набором символов, Dataset и состоянием загрузки.
// Циклы синхронизации выполняются строго по одному; коммиты идут в порядке старта циклов.
type Engine struct {
	store  SymbolStore
	lookup MarketLookup
	opts   Options

	runMu sync.Mutex // один цикл synchronize за раз
	mutMu sync.Mutex // проверка дубликата + add/remove атомарно

	requested atomic.Uint64 // счётчик запросов synchronize

	mu          sync.RWMutex
	symbols     []models.TrackedSymbol
	dataset     models.Dataset
	version     uint64
	committedAt time.Time
	covered     uint64 // все запросы с номером <= covered уже отражены в dataset
	inFlight    int

	subMu   sync.Mutex
	subs    map[int]chan models.Snapshot
	nextSub int
}

func NewEngine(store SymbolStore, lookup MarketLookup, opts Options) *Engine {
	return &Engine{
		store:   store,
		lookup:  lookup,
		opts:    opts,
		dataset: models.Dataset{},
		subs:    make(map[int]chan models.Snapshot),
	}
}

// Synchronize перечитывает набор символов, параллельно запрашивает метрики и коммитит Dataset.
// Absent и LookupError по отдельному тикеру просто выкидывают его из Dataset.
// PersistenceError на чтении набора возвращается, прошлый Dataset остаётся.
func (e *Engine) Synchronize(ctx context.Context) (ds models.Dataset, err error) {
	e.begin()
	defer e.end()

	span, ctx := tracing.StartSpan(ctx, "watchlist.synchronize")
	defer func() { tracing.Finish(span, err) }()

	return e.synchronize(ctx)
}

// RequestAdd добавляет код, если его ещё нет (сравнение по нормализованному равенству),
// и запускает синхронизацию. Уже отслеживаемый код: тихий no-op.
func (e *Engine) RequestAdd(ctx context.Context, code string) (ds models.Dataset, err error) {
	e.begin()
	defer e.end()

	span, ctx := tracing.StartSpan(ctx, "watchlist.request_add")
	defer func() { tracing.Finish(span, err) }()

	code = models.NormalizeCode(code)
	if code == "" {
		return nil, models.ErrEmptyCode
	}
	span.SetTag("symbol", code)

	added, err := e.addIfAbsent(ctx, code)
	if err != nil {
		return nil, err
	}
	if !added {
		logger.Info("[WATCHLIST] %s already tracked, skip add", code)
		return e.Dataset(), nil
	}
	logger.Info("[WATCHLIST] %s added", code)

	return e.synchronize(ctx)
}

// RequestRemove удаляет код (отсутствующий тоже ок) и запускает синхронизацию.
func (e *Engine) RequestRemove(ctx context.Context, code string) (ds models.Dataset, err error) {
	e.begin()
	defer e.end()

	span, ctx := tracing.StartSpan(ctx, "watchlist.request_remove")
	defer func() { tracing.Finish(span, err) }()

	code = models.NormalizeCode(code)
	if code == "" {
		return nil, models.ErrEmptyCode
	}
	span.SetTag("symbol", code)

	removed, err := e.removeIfPresent(ctx, code)
	if err != nil {
		return nil, err
	}
	if removed != "" {
		logger.Info("[WATCHLIST] %s removed", removed)
	}

	return e.synchronize(ctx)
}

// removeIfPresent удаляет код в том написании, в каком он лежит в хранилище.
// Отсутствующий код: пустая строка без ошибки.
func (e *Engine) removeIfPresent(ctx context.Context, code string) (string, error) {
	e.mutMu.Lock()
	defer e.mutMu.Unlock()

	symbols, err := e.store.ListSymbols(ctx)
	if err != nil {
		return "", err
	}
	for _, sym := range symbols {
		if models.NormalizeCode(sym.Code) != code {
			continue
		}
		if err := e.store.RemoveSymbol(ctx, sym.Code); err != nil {
			return "", err
		}
		return sym.Code, nil
	}
	return "", nil
}

func (e *Engine) addIfAbsent(ctx context.Context, code string) (bool, error) {
	e.mutMu.Lock()
	defer e.mutMu.Unlock()

	symbols, err := e.store.ListSymbols(ctx)
	if err != nil {
		return false, err
	}
	if models.ContainsCode(symbols, code) {
		return false, nil
	}

	if e.opts.ValidateOnAdd {
		rec, err := e.lookupOne(ctx, code)
		if err != nil {
			return false, fmt.Errorf("validate %s: %w", code, err)
		}
		if rec == nil {
			return false, fmt.Errorf("validate %s: %w", code, models.ErrUnknownSymbol)
		}
	}

	if err := e.store.AddSymbol(ctx, code); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) synchronize(ctx context.Context) (models.Dataset, error) {
	ticket := e.requested.Add(1)

	e.runMu.Lock()
	defer e.runMu.Unlock()

	// пока ждали, более поздний цикл уже всё перечитал: отдаём его результат
	e.mu.RLock()
	covered, current := e.covered, e.dataset
	e.mu.RUnlock()
	if covered >= ticket {
		return current.Clone(), nil
	}

	start := e.requested.Load()
	symbols, err := e.store.ListSymbols(ctx)
	if err != nil {
		logger.Error("[WATCHLIST] list symbols: %v", err)
		return nil, err
	}

	dataset := e.fanOut(ctx, symbols)
	// отмена вызывающего не сбой провайдера: не коммитим, прошлый Dataset остаётся
	if err := ctx.Err(); err != nil {
		logger.Warn("[WATCHLIST] sync canceled, keep previous dataset: %v", err)
		return nil, err
	}
	e.commit(start, symbols, dataset)

	logger.Info("[WATCHLIST] synchronized: symbols=%d rows=%d", len(symbols), len(dataset))
	return dataset.Clone(), nil
}

// fanOut запускает lookup на каждый тикер и ждёт всех. Ошибка одного не отменяет соседей:
// задачи никогда не возвращают error, результат пишется в свой индекс.
func (e *Engine) fanOut(ctx context.Context, symbols []models.TrackedSymbol) models.Dataset {
	results := make([]*models.MetricsRecord, len(symbols))

	var g errgroup.Group
	if e.opts.MaxConcurrency > 0 {
		g.SetLimit(e.opts.MaxConcurrency)
	}
	for i, sym := range symbols {
		g.Go(func() error {
			results[i] = e.fetchOne(ctx, sym.Code)
			return nil
		})
	}
	_ = g.Wait()

	dataset := make(models.Dataset, 0, len(symbols))
	for _, rec := range results {
		if rec != nil {
			dataset = append(dataset, *rec)
		}
	}
	return dataset
}

func (e *Engine) fetchOne(ctx context.Context, code string) *models.MetricsRecord {
	span, ctx := tracing.StartSpan(ctx, "watchlist.lookup")
	span.SetTag("symbol", code)

	rec, err := e.lookupOne(ctx, code)
	tracing.Finish(span, err)
	if err != nil {
		logger.Error("[WATCHLIST] lookup failed, dropping %s: %v", code, err)
		return nil
	}
	if rec == nil {
		return nil
	}
	// строка Dataset идентифицируется тикером из хранилища
	out := *rec
	out.Symbol = code
	return &out
}

// lookupOne один запрос к провайдеру с таймаутом; паника провайдера становится LookupError
func (e *Engine) lookupOne(ctx context.Context, code string) (rec *models.MetricsRecord, err error) {
	defer func() {
		if p := recover(); p != nil {
			rec, err = nil, &models.LookupError{Symbol: code, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	if e.opts.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.LookupTimeout)
		defer cancel()
	}
	return e.lookup.FetchMetrics(ctx, code)
}

func (e *Engine) commit(start uint64, symbols []models.TrackedSymbol, dataset models.Dataset) {
	e.mu.Lock()
	e.symbols = models.CloneSymbols(symbols)
	e.dataset = dataset.Clone()
	e.version++
	e.committedAt = time.Now()
	if start > e.covered {
		e.covered = start
	}
	e.publish(e.snapshotLocked())
	e.mu.Unlock()
}

func (e *Engine) begin() {
	e.mu.Lock()
	e.inFlight++
	if e.inFlight == 1 {
		e.publish(e.snapshotLocked())
	}
	e.mu.Unlock()
}

func (e *Engine) end() {
	e.mu.Lock()
	e.inFlight--
	if e.inFlight == 0 {
		e.publish(e.snapshotLocked())
	}
	e.mu.Unlock()
}

// ---- read accessors ----

func (e *Engine) Dataset() models.Dataset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dataset.Clone()
}

// Symbols копия набора, прочитанного последним успешным циклом
func (e *Engine) Symbols() []models.TrackedSymbol {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return models.CloneSymbols(e.symbols)
}

func (e *Engine) State() models.SyncState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stateLocked()
}

func (e *Engine) Loading() bool {
	return e.State() == models.SyncLoading
}

func (e *Engine) Snapshot() models.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *Engine) stateLocked() models.SyncState {
	if e.inFlight > 0 {
		return models.SyncLoading
	}
	return models.SyncIdle
}

func (e *Engine) snapshotLocked() models.Snapshot {
	state := e.stateLocked()
	return models.Snapshot{
		Dataset:     e.dataset.Clone(),
		State:       state,
		Loading:     state == models.SyncLoading,
		Version:     e.version,
		CommittedAt: e.committedAt,
	}
}

// ---- subscriptions ----

// Subscribe отдаёт канал снапшотов: коммиты и смены состояния.
// Медленный подписчик теряет промежуточные снапшоты, последний всегда доходит.
func (e *Engine) Subscribe() (<-chan models.Snapshot, func()) {
	ch := make(chan models.Snapshot, 1)

	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	e.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.subMu.Lock()
			delete(e.subs, id)
			e.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publish вызывается под e.mu, поэтому снапшоты уходят в порядке версий
func (e *Engine) publish(snap models.Snapshot) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	for _, ch := range e.subs {
		select {
		case ch <- snap:
		default:
			// выкидываем устаревший и кладём свежий
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
