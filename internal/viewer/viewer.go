package viewer

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/meshforge/meshview/internal/api"
	"github.com/meshforge/meshview/internal/logger"
	"github.com/meshforge/meshview/internal/mesh"
)

// AssetRef identifies a model asset to display.
type AssetRef struct {
	URL    string
	Format mesh.Format
}

// NewAssetRef builds a reference with the format inferred from the URL
// suffix.
func NewAssetRef(url string) AssetRef {
	return AssetRef{URL: url, Format: mesh.DetectFormat(url)}
}

// Fetcher retrieves raw asset bytes.
type Fetcher interface {
	FetchAsset(ctx context.Context, url string) ([]byte, error)
}

type loadResult struct {
	gen uint64
	m   *mesh.Mesh
	err error
	url string
}

// Viewer drives Decoder -> Normalizer -> Scene Session on each asset
// reference change and surfaces loading/error state. Fetch and decode run
// off the render thread; results are applied by Update on the next frame,
// and a stale result (superseded by a newer reference) is discarded.
type Viewer struct {
	session *Session
	fetch   Fetcher

	mu      sync.Mutex
	gen     uint64
	loading bool
	errText string
	pending *loadResult
}

// New creates a viewer over a started session.
func New(session *Session, fetch Fetcher) *Viewer {
	return &Viewer{session: session, fetch: fetch}
}

// SetAsset begins loading the referenced asset. The previous mesh keeps
// rendering until the new one is ready. An empty URL is ignored: absence
// alone is not a clear signal.
func (v *Viewer) SetAsset(ref AssetRef) {
	if ref.URL == "" {
		return
	}

	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.loading = true
	v.errText = ""
	v.pending = nil
	v.mu.Unlock()

	logger.Info("loading model",
		zap.String("url", ref.URL),
		zap.String("format", ref.Format.String()),
	)

	go v.load(gen, ref)
}

func (v *Viewer) load(gen uint64, ref AssetRef) {
	res := loadResult{gen: gen, url: ref.URL}

	data, err := v.fetch.FetchAsset(context.Background(), ref.URL)
	if err != nil {
		res.err = err
	} else {
		var m *mesh.Mesh
		if m, err = mesh.Decode(data, ref.Format); err == nil {
			m, err = mesh.Normalize(m)
		}
		res.m, res.err = m, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		// A later reference won; drop this result.
		logger.Debug("discarding stale load", zap.String("url", ref.URL))
		return
	}
	v.pending = &res
}

// Update applies a completed load, if any. Must run on the render thread.
// A failed load surfaces an error message and leaves the session's resident
// mesh untouched.
func (v *Viewer) Update() {
	v.mu.Lock()
	res := v.pending
	if res == nil {
		v.mu.Unlock()
		return
	}
	v.pending = nil
	v.loading = false
	if res.err != nil {
		v.errText = failureText(res.err)
	}
	v.mu.Unlock()

	if res.err != nil {
		logger.Warn("model load failed",
			zap.String("url", res.url),
			zap.Error(res.err),
		)
		return
	}

	if err := v.session.SetMesh(res.m); err != nil {
		logger.Error("failed to bind mesh", zap.Error(err))
		v.mu.Lock()
		v.errText = "could not display model"
		v.mu.Unlock()
	}
}

// Loading reports whether a load is in flight.
func (v *Viewer) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err returns the user-visible failure text from the last load, or "".
func (v *Viewer) Err() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errText
}

// Close disposes the underlying session. Must run on the render thread.
func (v *Viewer) Close() {
	v.session.Dispose()
}

// failureText maps load errors to short user-visible messages. Nothing is
// retried automatically.
func failureText(err error) string {
	switch {
	case errors.Is(err, mesh.ErrUnsupportedFormat):
		return "unsupported model format"
	case errors.Is(err, mesh.ErrMalformedAsset):
		return "model file is malformed"
	case errors.Is(err, mesh.ErrDegenerateGeometry):
		return "model has no volume to display"
	case errors.Is(err, api.ErrNetworkFailure):
		return "could not download model"
	case errors.Is(err, api.ErrGenerationService):
		return "generation service error"
	default:
		return "failed to load model"
	}
}
