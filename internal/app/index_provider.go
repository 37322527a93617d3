package app

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"biocat/internal/infra/index"
	"biocat/internal/infra/telemetry"
)

const defaultReloadDebounce = 200 * time.Millisecond

// DynamicIndexProvider serves the current catalog index and rebuilds it
// when the merger rewrites the combined artifact. Snapshots are
// immutable; readers never block a reload.
type DynamicIndexProvider struct {
	logger       *zap.Logger
	artifactPath string
	metrics      *telemetry.PrometheusMetrics

	state    atomic.Value
	reloadMu sync.Mutex
}

// NewDynamicIndexProvider loads the artifact once up front; a missing
// or malformed artifact is a startup error.
func NewDynamicIndexProvider(artifactPath string, metrics *telemetry.PrometheusMetrics, logger *zap.Logger) (*DynamicIndexProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	provider := &DynamicIndexProvider{
		logger:       logger.Named("index_provider"),
		artifactPath: artifactPath,
		metrics:      metrics,
	}
	snapshot, err := index.LoadFile(artifactPath, provider.logger)
	if err != nil {
		return nil, err
	}
	provider.state.Store(snapshot)
	if metrics != nil {
		metrics.SetToolsIndexed(snapshot.Len())
	}
	return provider, nil
}

// Current returns the latest index snapshot.
func (p *DynamicIndexProvider) Current() *index.Index {
	return p.state.Load().(*index.Index)
}

// Reload rebuilds the index from the artifact. The previous snapshot
// stays in place when the reload fails.
func (p *DynamicIndexProvider) Reload() error {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	snapshot, err := index.LoadFile(p.artifactPath, p.logger)
	if p.metrics != nil {
		p.metrics.ObserveIndexReload(err)
	}
	if err != nil {
		return err
	}
	p.state.Store(snapshot)
	if p.metrics != nil {
		p.metrics.SetToolsIndexed(snapshot.Len())
	}
	return nil
}

// Watch blocks until ctx is done, reloading the index whenever the
// artifact changes on disk. Reloads are debounced because the merger
// writes the file in one burst of events.
func (p *DynamicIndexProvider) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Each merge run removes the whole metadata directory, which also
	// removes its watch. Watching the parent as well lets us re-arm the
	// directory watch when the merger recreates it.
	artifactDir := filepath.Dir(p.artifactPath)
	if err := watcher.Add(filepath.Dir(artifactDir)); err != nil {
		return err
	}
	if err := watcher.Add(artifactDir); err != nil {
		p.logger.Warn("metadata directory watch failed", zap.String("path", artifactDir), zap.Error(err))
	}

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watcher.Errors:
			if err != nil {
				p.logger.Warn("artifact watcher error", zap.Error(err))
			}
		case event := <-watcher.Events:
			switch filepath.Clean(event.Name) {
			case artifactDir:
				if !event.Has(fsnotify.Create) {
					continue
				}
				if err := watcher.Add(artifactDir); err != nil {
					p.logger.Warn("metadata directory watch failed", zap.String("path", artifactDir), zap.Error(err))
					continue
				}
			case filepath.Clean(p.artifactPath):
			default:
				continue
			}
			if timer == nil {
				timer = time.NewTimer(defaultReloadDebounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(defaultReloadDebounce)
		case <-timerChan(timer):
			timer = nil
			if err := p.Reload(); err != nil {
				p.logger.Warn("index reload failed", zap.Error(err))
			} else {
				p.logger.Info("index reloaded", zap.Int("tools", p.Current().Len()))
			}
		}
	}
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
