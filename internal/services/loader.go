package services

import (
	"context"
	"errors"
	"time"

	"txdash/internal/amqp"
	"txdash/internal/core"
	"txdash/internal/dataset"
	applog "txdash/internal/log"
	"txdash/internal/sources"
)

// Notifier receives the outcome of the load. Publishing is best effort.
type Notifier interface {
	PublishDatasetLoaded(ctx context.Context, msg *amqp.DatasetLoadedMessage) error
}

// Loader performs the single startup fetch into the store.
type Loader struct {
	store    *dataset.Store
	source   sources.Source
	notifier Notifier
	timeout  time.Duration
	logger   *applog.Logger
	slog     *applog.StructuredLogger
}

// NewLoader builds a loader. A zero timeout leaves the fetch bounded only
// by ctx; notifier may be nil.
func NewLoader(store *dataset.Store, source sources.Source, notifier Notifier, timeout time.Duration, logger *applog.Logger) *Loader {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentDataset)
	return &Loader{
		store:    store,
		source:   source,
		notifier: notifier,
		timeout:  timeout,
		logger:   logger,
		slog:     applog.NewStructuredLogger(logger),
	}
}

// Run loads the dataset and reports the outcome. The returned error is the
// load error; a failed notification is only logged.
func (l *Loader) Run(ctx context.Context) error {
	fetchCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	l.logger.InfoContext(ctx, "Loading dataset", applog.FieldSource, l.source.Name())
	start := time.Now()
	ds, err := l.store.Load(fetchCtx, l.source)
	elapsed := time.Since(start).Milliseconds()
	if errors.Is(err, dataset.ErrAlreadyLoaded) {
		return err
	}

	state := l.store.State().String()
	l.slog.LogDatasetLoaded(ctx, l.source.Name(), state, len(ds.Customers), len(ds.Transactions), elapsed, err)
	l.notify(ctx, state, ds, err)
	return err
}

func (l *Loader) notify(ctx context.Context, state string, ds core.Dataset, loadErr error) {
	if l.notifier == nil {
		return
	}
	msg := amqp.NewDatasetLoadedMessage(l.source.Name(), state, len(ds.Customers), len(ds.Transactions), loadErr)
	if err := l.notifier.PublishDatasetLoaded(context.WithoutCancel(ctx), msg); err != nil {
		l.logger.WarnContext(ctx, "Failed to publish dataset loaded event",
			"error", err,
			applog.FieldOperation, applog.OpPublish)
	}
}
