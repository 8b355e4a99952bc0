// Package engine is the local-first mutation engine. Every create, update and
// delete is applied to the in-memory Session first and confirmed against the
// remote store in the background. Confirmed creates swap their temp id for
// the durable id; failed writes restore the collections from the snapshot
// taken before the mutation.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/client/remote"
	"github.com/dmitrijs2005/worktracker/internal/client/taxonomy"
	"github.com/dmitrijs2005/worktracker/internal/common"
	"github.com/dmitrijs2005/worktracker/internal/logging"
	"github.com/dmitrijs2005/worktracker/internal/models"
	"github.com/google/uuid"
)

// Uploader stores a certificate attachment and returns a URL to read it.
type Uploader interface {
	Upload(ctx context.Context, employeeID string, a models.Attachment) (string, error)
}

// Notifier delivers a message to one notification token.
type Notifier interface {
	Notify(ctx context.Context, token, text string) error
}

// Engine orchestrates optimistic mutations over one Session.
type Engine struct {
	store    remote.Store
	logger   logging.Logger
	uploader Uploader
	notifier Notifier
	report   func(error)
	now      func() time.Time
	newID    func() string

	s *Session

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// lmu guards closed and every wg.Add.
	lmu    sync.Mutex
	closed bool
}

type Option func(*Engine)

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l.With("module", "engine") }
}

func WithUploader(u Uploader) Option {
	return func(e *Engine) { e.uploader = u }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithReporter registers fn to receive every SyncError and CascadeError. It
// is called from background goroutines.
func WithReporter(fn func(error)) Option {
	return func(e *Engine) { e.report = fn }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the temp id generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func New(store remote.Store, opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		store:  store,
		logger: logging.Discard(),
		report: func(error) {},
		now:    time.Now,
		newID:  uuid.NewString,
		s:      newSession(),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Load replaces the session with the store's contents. Missing built-in
// statuses are created remotely before Load returns.
func (e *Engine) Load(ctx context.Context) error {
	statuses, err := loadAll[models.WorkflowStatus](ctx, e.store, common.CollectionStatuses)
	if err != nil {
		return err
	}
	for _, b := range taxonomy.Missing(statuses) {
		data, err := encode(b)
		if err != nil {
			return err
		}
		id, err := e.store.Create(ctx, common.CollectionStatuses, data)
		if err != nil {
			return fmt.Errorf("bootstrap status %s: %w", b.Label, err)
		}
		e.logger.Info(ctx, "created built-in status", "label", b.Label, "id", id)
		statuses = append(statuses, b.WithID(id))
	}
	taxonomy.Sort(statuses)

	demands, err := loadAll[models.WorkItem](ctx, e.store, common.CollectionDemands)
	if err != nil {
		return err
	}
	vacations, err := loadAll[models.LeavePeriod](ctx, e.store, common.CollectionVacations)
	if err != nil {
		return err
	}
	employees, err := loadAll[models.Employee](ctx, e.store, common.CollectionEmployees)
	if err != nil {
		return err
	}
	certificates, err := loadAll[models.LeaveCertificate](ctx, e.store, common.CollectionCertificates)
	if err != nil {
		return err
	}

	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	e.s.statuses.restore(statuses)
	e.s.demands.restore(demands)
	e.s.vacations.restore(vacations)
	e.s.employees.restore(employees)
	e.s.certificates.restore(certificates)

	e.logger.Info(ctx, "session loaded",
		"demands", len(demands), "vacations", len(vacations), "employees", len(employees),
		"certificates", len(certificates), "statuses", len(statuses))
	return nil
}

// Close waits for in-flight confirmations. When ctx ends first the remaining
// remote calls are cancelled and ctx's error is returned. Mutations issued
// after Close has started fail with context.Canceled and are rolled back.
func (e *Engine) Close(ctx context.Context) error {
	e.lmu.Lock()
	e.closed = true
	e.lmu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.cancel()
		return nil
	case <-ctx.Done():
		e.cancel()
		<-done
		return ctx.Err()
	}
}

// Pending reports whether id names a record whose create is unconfirmed.
func (e *Engine) Pending(id string) bool {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return e.s.isPending(id)
}

// Resolve returns the durable id for a confirmed temp id, or id itself.
func (e *Engine) Resolve(id string) string {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return e.s.canonical(id)
}

// launch runs fn in the background. Once Close has started, fn runs on the
// caller goroutine with a cancelled context instead.
func (e *Engine) launch(fn func(ctx context.Context)) {
	e.lmu.Lock()
	if e.closed {
		e.lmu.Unlock()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fn(ctx)
		return
	}
	e.wg.Add(1)
	e.lmu.Unlock()

	go func() {
		defer e.wg.Done()
		fn(e.ctx)
	}()
}

// awaitID returns the durable id for id, waiting for its create to confirm
// when it is still pending.
func (e *Engine) awaitID(ctx context.Context, id string) (string, error) {
	e.s.mu.Lock()
	if real, ok := e.s.aliases[id]; ok {
		e.s.mu.Unlock()
		return real, nil
	}
	op, pending := e.s.pending[id]
	e.s.mu.Unlock()

	if !pending {
		return id, nil
	}

	select {
	case <-op.Done():
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if op.Err() != nil {
		return "", fmt.Errorf("%w: %s", errNeverCreated, id)
	}
	return op.ID(), nil
}

// confirm runs write in the background. When it fails, the named collections
// are restored from f and the failure is delivered as a SyncError. onSuccess
// runs after a successful write, outside the session lock.
func (e *Engine) confirm(op *Op, opName, collection, id string, f frame, touched []string,
	write func(ctx context.Context) error, onSuccess func(ctx context.Context)) {
	e.launch(func(ctx context.Context) {
		err := write(ctx)
		if err == nil {
			e.logger.Debug(ctx, "confirmed", "op", opName, "collection", collection, "id", id)
			op.finish(e.Resolve(id), nil)
			if onSuccess != nil {
				onSuccess(ctx)
			}
			return
		}

		serr := &SyncError{Collection: collection, Op: opName, ID: id, Err: err}
		if errors.Is(err, errDropped) {
			// The create this write depended on was already rolled back.
			op.finish(id, serr)
			return
		}

		e.s.mu.Lock()
		e.s.restore(f, touched...)
		e.s.mu.Unlock()

		e.logger.Warn(ctx, "remote write failed, rolled back", "op", opName, "collection", collection, "id", id, "error", err)
		op.finish(id, serr)
		e.report(serr)
	})
}

// binding ties a record type to its collection.
type binding[T Record[T]] struct {
	name string
	col  func(*Session) *collection[T]
	// resolve swaps references to pending records for durable ids before a
	// remote write; it may wait for their creates.
	resolve func(ctx context.Context, e *Engine, v T) (T, error)
}

func (b binding[T]) prepare(ctx context.Context, e *Engine, v T) (T, error) {
	if b.resolve == nil {
		return v, nil
	}
	return b.resolve(ctx, e, v)
}

// stageCreate inserts draft under a fresh temp id. Caller holds the lock.
func stageCreate[T Record[T]](e *Engine, b binding[T], draft T) (T, *Op) {
	rec := draft.WithID(e.newID())
	b.col(e.s).prepend(rec)
	op := newOp()
	e.s.pending[rec.GetID()] = op
	return rec, op
}

// createHooks customize the confirmation of a create.
type createHooks[T any] struct {
	// before runs after references are resolved and before the store call.
	before func(ctx context.Context, v T) (T, error)
	// merge folds fields produced by before into the local record.
	merge func(local, sent T) T
	// after runs once the durable id is known, outside the lock.
	after func(ctx context.Context, confirmed T)
}

// confirmCreate writes rec to the store and reconciles the temp id with the
// durable one. A failure restores the touched collections from f unless the
// temp record has already been removed locally.
func confirmCreate[T Record[T]](e *Engine, b binding[T], rec T, op *Op, f frame, h createHooks[T]) {
	tempID := rec.GetID()

	e.launch(func(ctx context.Context) {
		payload, err := b.prepare(ctx, e, rec)
		if err == nil && h.before != nil {
			payload, err = h.before(ctx, payload)
		}
		var id string
		if err == nil {
			var data []byte
			if data, err = encode(payload); err == nil {
				id, err = e.store.Create(ctx, b.name, data)
			}
		}

		e.s.mu.Lock()
		delete(e.s.pending, tempID)
		c := b.col(e.s)
		local, present := c.get(tempID)

		if err != nil {
			if present {
				e.s.restore(f, b.name)
			}
			e.s.mu.Unlock()

			serr := &SyncError{Collection: b.name, Op: "create", ID: tempID, Err: err}
			op.finish("", serr)
			if present {
				e.logger.Warn(ctx, "create failed, rolled back", "collection", b.name, "temp_id", tempID, "error", err)
				e.report(serr)
			}
			return
		}

		e.s.aliases[tempID] = id
		confirmed := payload.WithID(id)
		if present {
			if h.merge != nil {
				local = h.merge(local, payload)
			}
			confirmed = local.WithID(id)
			c.replace(tempID, confirmed)
		} else {
			e.logger.Debug(ctx, "stale create confirmation discarded", "collection", b.name, "temp_id", tempID, "id", id)
		}
		e.s.rekey(tempID, id)
		e.s.mu.Unlock()

		op.finish(id, nil)
		if present && h.after != nil {
			h.after(ctx, confirmed)
		}
	})
}

func replaceRemote[T Record[T]](ctx context.Context, e *Engine, b binding[T], rec T) error {
	id, err := e.awaitID(ctx, rec.GetID())
	if errors.Is(err, errNeverCreated) {
		return fmt.Errorf("%w: %v", errDropped, err)
	}
	if err != nil {
		return err
	}
	payload, err := b.prepare(ctx, e, rec)
	if err != nil {
		return err
	}
	data, err := encode(payload)
	if err != nil {
		return err
	}
	return e.store.Replace(ctx, b.name, id, data)
}

// deleteRemote deletes id; a record whose create was rejected has nothing to
// delete.
func deleteRemote(ctx context.Context, e *Engine, collection, id string) error {
	real, err := e.awaitID(ctx, id)
	if errors.Is(err, errNeverCreated) {
		return nil
	}
	if err != nil {
		return err
	}
	return e.store.Delete(ctx, collection, real)
}

// update is the plain optimistic update shared by the collections. check runs
// under the lock with the stored record and may normalize rec.
func update[T Record[T]](e *Engine, b binding[T], rec T, check func(next, prev T) (T, error), onSuccess func(ctx context.Context, prev T)) (*Op, error) {
	e.s.mu.Lock()
	rec = rec.WithID(e.s.canonical(rec.GetID()))
	prev, ok := b.col(e.s).get(rec.GetID())
	if !ok {
		e.s.mu.Unlock()
		return nil, notFound(b.name, rec.GetID())
	}
	if check != nil {
		var err error
		if rec, err = check(rec, prev); err != nil {
			e.s.mu.Unlock()
			return nil, err
		}
	}
	f := e.s.capture()
	b.col(e.s).replace(rec.GetID(), rec)
	e.s.mu.Unlock()

	op := newOp()
	var after func(ctx context.Context)
	if onSuccess != nil {
		after = func(ctx context.Context) { onSuccess(ctx, prev) }
	}
	e.confirm(op, "update", b.name, rec.GetID(), f, []string{b.name},
		func(ctx context.Context) error { return replaceRemote(ctx, e, b, rec) }, after)
	return op, nil
}

// remove is the plain optimistic delete shared by most collections.
func remove[T Record[T]](e *Engine, b binding[T], id string) (*Op, error) {
	e.s.mu.Lock()
	id = e.s.canonical(id)
	f := e.s.capture()
	if _, ok := b.col(e.s).remove(id); !ok {
		e.s.mu.Unlock()
		return nil, notFound(b.name, id)
	}
	e.s.mu.Unlock()

	op := newOp()
	e.confirm(op, "delete", b.name, id, f, []string{b.name},
		func(ctx context.Context) error { return deleteRemote(ctx, e, b.name, id) }, nil)
	return op, nil
}

func list[T Record[T]](e *Engine, b binding[T]) []T {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return b.col(e.s).list()
}

func get[T Record[T]](e *Engine, b binding[T], id string) (T, bool) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return b.col(e.s).get(e.s.canonical(id))
}

// encode marshals a record into a document body. The id lives outside the
// body, so the "id" key is dropped.
func encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	delete(fields, "id")
	return json.Marshal(fields)
}

func loadAll[T Record[T]](ctx context.Context, store remote.Store, collection string) ([]T, error) {
	docs, err := store.ListAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d.Data, &v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, d.ID, err)
		}
		out = append(out, v.WithID(d.ID))
	}
	return out, nil
}
