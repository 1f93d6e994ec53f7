package register

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/docker/go-units"
	"github.com/lsst-dm/curation-tools/pkg/errors"
	"github.com/lsst-dm/curation-tools/pkg/fixity"
	"github.com/lsst-dm/curation-tools/pkg/model"
	"github.com/lsst-dm/curation-tools/pkg/rucio"
	"github.com/lsst-dm/curation-tools/pkg/rucio/status"
	"github.com/lsst-dm/curation-tools/pkg/storage"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Service is the part of the data management client the registration
// run needs.
type Service interface {
	AddReplicas(ctx context.Context, rse string, files model.FileEntries) error
	ListReplicas(ctx context.Context, dids model.DIDs, rseExpression string) (map[string]struct{}, error)
	AddDataset(ctx context.Context, did model.DID, statuses rucio.DatasetStatuses, rse string) error
	AttachDIDs(ctx context.Context, parent model.DID, entries model.FileEntries, rse string) error
	ListContent(ctx context.Context, did model.DID) (model.DIDs, error)
	CloseDID(ctx context.Context, did model.DID) error
	SetMetadata(ctx context.Context, did model.DID, key string, value interface{}) error
}

// Report summarizes a registration run
type Report struct {
	Scope    string   `json:"scope" yaml:"scope"`
	RSE      string   `json:"rse" yaml:"rse"`
	DryRun   bool     `json:"dry_run" yaml:"dry_run"`
	Files    uint64   `json:"files" yaml:"files"`
	Bytes    uint64   `json:"bytes" yaml:"bytes"`
	Skipped  uint64   `json:"skipped" yaml:"skipped"`
	Failed   uint64   `json:"failed" yaml:"failed"`
	Datasets []string `json:"datasets" yaml:"datasets"`
}

func (r Report) String() string {
	return fmt.Sprintf("Files: %d (%s), Datasets: %d, Skipped: %d, Failed: %d",
		r.Files, units.BytesSize(float64(r.Bytes)), len(r.Datasets), r.Skipped, r.Failed)
}

type fileResult struct {
	entry   model.FileEntry
	dataset string
}

// Register scans the store for keys under the configured prefix,
// checksums each object and registers it as a replica at the RSE,
// attaching it to the dataset its key classifies into.
//
// Replica creation and dataset attachment are batched: before each
// flush the service is asked which entries already exist and only the
// missing ones are sent. Datasets are registered monotonic at the RSE
// when first seen. On completion each dataset is closed and stamped
// with archival metadata, unless the run is sliced across jobs.
//
// With WithDryRun the store is scanned and classified but nothing is
// checksummed or registered.
func Register(ctx context.Context, service Service, store storage.Store, scope, rse string, opts ...Option) (Report, error) {
	settings := newSettings(opts...)
	report := Report{Scope: scope, RSE: rse, DryRun: settings.dryRun}
	settings.l.Info("starting registration",
		zap.String("scope", scope),
		zap.String("rse", rse),
		zap.String("store", store.String()),
		zap.String("prefix", settings.prefix),
		zap.Bool("dry_run", settings.dryRun),
	)

	var (
		wg        sync.WaitGroup
		files     uint64
		bytesDone uint64
		failed    uint64
	)
	keyC := make(chan string)
	resultC := make(chan fileResult)
	scanErrC := make(chan error, 1)

	wg.Add(1)
	go func(keyC chan<- string, errC chan<- error) {
		defer wg.Done()
		errC <- scanKeys(ctx, store, settings, keyC)
	}(keyC, scanErrC)

	var workers sync.WaitGroup
	for i := 0; i < settings.concurrentFiles; i++ {
		workers.Add(1)
		go func(keyC <-chan string, resultC chan<- fileResult) {
			defer workers.Done()
			for key := range keyC {
				entry, err := checksumKey(ctx, store, scope, key, settings)
				if err != nil {
					settings.l.Error("checksum failed", zap.String("key", key), zap.Error(err))
					atomic.AddUint64(&failed, 1)
					continue
				}
				atomic.AddUint64(&files, 1)
				atomic.AddUint64(&bytesDone, uint64(entry.Bytes))
				settings.l.Info("file processed",
					zap.String("key", key),
					zap.Int64("size", entry.Bytes),
					zap.Uint64("total", atomic.LoadUint64(&files)),
				)
				select {
				case resultC <- fileResult{entry: entry, dataset: DatasetForKey(key)}:
				case <-settings.doneChannel:
					return
				}
			}
		}(keyC, resultC)
	}
	go func() {
		workers.Wait()
		close(resultC)
	}()

	batcher := newBatcher(service, scope, rse, settings)
	var skipped uint64
	var batchErr error
	for res := range resultC {
		n, err := batcher.add(ctx, res)
		skipped += n
		batchErr = multierr.Append(batchErr, err)
	}
	wg.Wait()

	n, err := batcher.finish(ctx)
	skipped += n
	batchErr = multierr.Append(batchErr, err)
	batchErr = multierr.Append(batchErr, <-scanErrC)

	report.Files = atomic.LoadUint64(&files)
	report.Bytes = atomic.LoadUint64(&bytesDone)
	report.Failed = atomic.LoadUint64(&failed)
	report.Skipped = skipped
	report.Datasets = batcher.datasetNames()
	settings.l.Info("registration done", zap.String("report", report.String()))
	return report, batchErr
}

func scanKeys(ctx context.Context, store storage.Store, settings Settings, keyC chan<- string) error {
	defer close(keyC)

	token := ""
	index := 0
	for {
		keys, next, err := store.KeysPrefix(ctx, token, settings.prefix, "", settings.batchSize)
		if err != nil {
			return errors.New("scanning store").Wrap(err)
		}
		for _, key := range keys {
			sliced := settings.jobs > 1 && index%settings.jobs != settings.job
			index++
			if sliced {
				continue
			}
			select {
			case keyC <- key:
			case <-settings.doneChannel:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if next == "" {
			return nil
		}
		token = next
	}
}

func checksumKey(ctx context.Context, store storage.Store, scope, key string, settings Settings) (model.FileEntry, error) {
	entry := model.FileEntry{Name: key, Scope: scope}
	if settings.dryRun {
		return entry, nil
	}
	rdr, err := store.Get(ctx, key)
	if err != nil {
		return entry, err
	}
	defer func() { _ = rdr.Close() }()

	meta, err := fixity.Digest(rdr, settings.bufferSize)
	if err != nil {
		return entry, err
	}
	entry.Bytes = meta.Bytes
	entry.MD5 = meta.MD5
	entry.Adler32 = meta.Adler32
	return entry, nil
}

// batcher accumulates file entries and flushes them in batches: one
// global replica batch plus one attachment batch per dataset.
type batcher struct {
	service  Service
	scope    string
	rse      string
	settings Settings

	replicas model.FileEntries
	pending  map[string]model.FileEntries
	seen     map[string]struct{}
}

func newBatcher(service Service, scope, rse string, settings Settings) *batcher {
	return &batcher{
		service:  service,
		scope:    scope,
		rse:      rse,
		settings: settings,
		pending:  make(map[string]model.FileEntries),
		seen:     make(map[string]struct{}),
	}
}

func (b *batcher) add(ctx context.Context, res fileResult) (skipped uint64, err error) {
	if _, ok := b.seen[res.dataset]; !ok {
		b.seen[res.dataset] = struct{}{}
		err = multierr.Append(err, b.registerDataset(ctx, res.dataset))
	}

	b.replicas = append(b.replicas, res.entry)
	if len(b.replicas) >= b.settings.batchSize {
		n, ferr := b.flushReplicas(ctx)
		skipped += n
		err = multierr.Append(err, ferr)
	}

	b.pending[res.dataset] = append(b.pending[res.dataset], res.entry)
	if len(b.pending[res.dataset]) >= b.settings.batchSize {
		n, ferr := b.flushDataset(ctx, res.dataset)
		skipped += n
		err = multierr.Append(err, ferr)
	}
	return skipped, err
}

func (b *batcher) registerDataset(ctx context.Context, dataset string) error {
	if b.settings.dryRun {
		b.settings.l.Info("dry-run: would create dataset", zap.String("dataset", dataset))
		return nil
	}
	b.settings.l.Info("creating dataset", zap.String("dataset", dataset))
	did := model.DID{Scope: b.scope, Name: dataset}
	err := b.service.AddDataset(ctx, did, rucio.DatasetStatuses{Monotonic: true}, b.rse)
	if err != nil && !errors.Is(err, status.ErrExists) {
		return fmt.Errorf("creating dataset %s: %w", did, err)
	}
	return nil
}

func (b *batcher) flushReplicas(ctx context.Context) (skipped uint64, err error) {
	batch := b.replicas
	b.replicas = nil
	if len(batch) == 0 || b.settings.dryRun {
		return 0, nil
	}

	dids := make(model.DIDs, 0, len(batch))
	for _, entry := range batch {
		dids = append(dids, entry.DID())
	}
	present, err := b.service.ListReplicas(ctx, dids, b.rse)
	if err != nil {
		return 0, fmt.Errorf("listing existing replicas: %w", err)
	}
	needed := batch.Without(present)
	skipped = uint64(len(batch) - len(needed))
	if len(needed) == 0 {
		return skipped, nil
	}
	if err = b.service.AddReplicas(ctx, b.rse, needed); err != nil {
		return skipped, fmt.Errorf("adding replicas: %w", err)
	}
	return skipped, nil
}

func (b *batcher) flushDataset(ctx context.Context, dataset string) (skipped uint64, err error) {
	batch := b.pending[dataset]
	b.pending[dataset] = nil
	if len(batch) == 0 || b.settings.dryRun {
		return 0, nil
	}

	parent := model.DID{Scope: b.scope, Name: dataset}
	children, err := b.service.ListContent(ctx, parent)
	if err != nil {
		return 0, fmt.Errorf("listing content of %s: %w", parent, err)
	}
	existing := make(map[string]struct{}, len(children))
	for _, child := range children {
		existing[child.Name] = struct{}{}
	}
	needed := batch.Without(existing)
	skipped = uint64(len(batch) - len(needed))
	if len(needed) == 0 {
		return skipped, nil
	}
	if err = b.service.AttachDIDs(ctx, parent, needed, b.rse); err != nil {
		return skipped, fmt.Errorf("attaching files to %s: %w", parent, err)
	}
	return skipped, nil
}

func (b *batcher) finish(ctx context.Context) (skipped uint64, err error) {
	n, ferr := b.flushReplicas(ctx)
	skipped += n
	err = multierr.Append(err, ferr)

	for _, dataset := range b.datasetNames() {
		n, ferr = b.flushDataset(ctx, dataset)
		skipped += n
		err = multierr.Append(err, ferr)

		// sliced runs leave closing to the final unsliced pass
		if b.settings.jobs > 1 || b.settings.dryRun {
			continue
		}
		did := model.DID{Scope: b.scope, Name: dataset}
		if cerr := b.service.CloseDID(ctx, did); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("closing %s: %w", did, cerr))
			continue
		}
		if merr := b.service.SetMetadata(ctx, did, b.settings.archiveKey, b.settings.archiveValue); merr != nil {
			err = multierr.Append(err, fmt.Errorf("stamping %s: %w", did, merr))
		}
	}
	return skipped, err
}

func (b *batcher) datasetNames() []string {
	names := make([]string, 0, len(b.seen))
	for dataset := range b.seen {
		names = append(names, dataset)
	}
	sort.Strings(names)
	return names
}
