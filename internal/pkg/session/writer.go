// internal/pkg/session/writer.go
package session

import (
	"context"
	"sync"
	"time"

	"soko-service/internal/domain/auth"

	"go.uber.org/zap"
)

// Writer persists rotated session components off the request path. Puts are
// fire-and-forget: a write can lose a race with an immediately-following
// refresh from the same account, which is acceptable because the next
// refresh rotates again and the store is last-write-wins per account.
//
// Failed deletes are parked in a bounded pending list and reattempted only
// on the retry ticker, so a store outage never turns into a hot retry loop
// and a logout is not silently lost on a store hiccup.
type Writer struct {
	store  *Store
	logger *zap.Logger

	puts    chan auth.SessionComponent
	deletes chan int64

	ctx    context.Context
	cancel context.CancelFunc

	wg        sync.WaitGroup
	closeOnce sync.Once
}

const (
	writerQueueSize  = 256
	deleteRetryEvery = 30 * time.Second
	writeTimeout     = 3 * time.Second
)

func NewWriter(store *Store, workers int, logger *zap.Logger) *Writer {
	if workers <= 0 {
		workers = 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Writer{
		store:   store,
		logger:  logger,
		puts:    make(chan auth.SessionComponent, writerQueueSize),
		deletes: make(chan int64, writerQueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go w.run()
	}
	w.wg.Add(1)
	go w.retryDeletes()

	return w
}

// EnqueuePut schedules a rotated session component for persistence. When
// the queue is full, or the writer is already closed, the component is
// written synchronously instead of being dropped: losing a rotation would
// lock the account out on its next refresh.
func (w *Writer) EnqueuePut(sc auth.SessionComponent) {
	select {
	case <-w.ctx.Done():
		w.put(sc)
		return
	default:
	}

	select {
	case w.puts <- sc:
	default:
		w.put(sc)
	}
}

// EnqueueDelete schedules removal of an account's session.
func (w *Writer) EnqueueDelete(accountID int64) {
	select {
	case <-w.ctx.Done():
		w.delete(accountID)
		return
	default:
	}

	select {
	case w.deletes <- accountID:
	default:
		w.logger.Warn("session delete queue full, deleting inline",
			zap.Int64("account_id", accountID))
		w.delete(accountID)
	}
}

// Close stops the workers after draining queued work. Safe to call more
// than once; enqueues arriving after Close fall back to synchronous writes.
func (w *Writer) Close() {
	w.closeOnce.Do(w.cancel)
	w.wg.Wait()
}

func (w *Writer) run() {
	defer w.wg.Done()

	for {
		select {
		case sc := <-w.puts:
			w.put(sc)
		case <-w.ctx.Done():
			for {
				select {
				case sc := <-w.puts:
					w.put(sc)
				default:
					return
				}
			}
		}
	}
}

func (w *Writer) retryDeletes() {
	defer w.wg.Done()

	ticker := time.NewTicker(deleteRetryEvery)
	defer ticker.Stop()

	var pending []int64

	attempt := func(id int64) {
		if err := w.delete(id); err == nil {
			return
		}
		if len(pending) < writerQueueSize {
			pending = append(pending, id)
			return
		}
		w.logger.Error("session delete retry list full, dropping",
			zap.Int64("account_id", id))
	}

	// retryPending reattempts every parked delete once; failures land back
	// in pending and wait for the next tick.
	retryPending := func() {
		retry := pending
		pending = nil
		for _, id := range retry {
			attempt(id)
		}
	}

	for {
		select {
		case id := <-w.deletes:
			attempt(id)
		case <-ticker.C:
			retryPending()
		case <-w.ctx.Done():
			for {
				select {
				case id := <-w.deletes:
					attempt(id)
				default:
					retryPending()
					return
				}
			}
		}
	}
}

func (w *Writer) put(sc auth.SessionComponent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := w.store.Put(ctx, sc); err != nil {
		w.logger.Error("failed to persist rotated session",
			zap.Int64("account_id", sc.AccountID),
			zap.Error(err),
		)
	}
}

func (w *Writer) delete(accountID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := w.store.Delete(ctx, accountID); err != nil {
		w.logger.Error("failed to delete session, will retry",
			zap.Int64("account_id", accountID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
