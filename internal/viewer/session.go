package viewer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/meshforge/meshview/internal/logger"
	"github.com/meshforge/meshview/internal/mesh"
)

// SessionState is the lifecycle state of a scene session.
type SessionState int

const (
	// StateNew is a session that has not been started.
	StateNew SessionState = iota
	// StateEmpty has a live render context but no mesh resident.
	StateEmpty
	// StateLoaded has one mesh resident and actively rendered.
	StateLoaded
	// StateDisposed is terminal; all render resources are released.
	StateDisposed
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateDisposed:
		return "disposed"
	default:
		return "invalid"
	}
}

// ErrSessionState is returned for operations invalid in the current state.
var ErrSessionState = errors.New("invalid session state")

// RenderBackend owns the render context and GPU-side resources. At most one
// mesh is resident at a time; Upload replaces nothing by itself, so callers
// must Release the outgoing mesh first to bound peak GPU memory.
type RenderBackend interface {
	// Init allocates the render context sized to the surface.
	Init(width, height int) error
	// Upload makes a mesh render-resident.
	Upload(m *mesh.Mesh) error
	// Release frees the resident mesh's buffers. No-op when none resident.
	Release()
	// Resize adjusts the surface pixel dimensions and camera aspect ratio.
	Resize(width, height int)
	// Draw renders one frame: the resident mesh if any, else background only.
	Draw(view ViewState)
	// Destroy releases the remaining context resources.
	Destroy()
}

// Session owns exactly one live mesh instance plus the render surface,
// camera, and lights, across a stream of mesh swaps.
type Session struct {
	state    SessionState
	backend  RenderBackend
	controls *Controls
	current  *mesh.Mesh
}

// NewSession creates an unstarted session over the given backend.
func NewSession(backend RenderBackend, controls *Controls) *Session {
	return &Session{
		backend:  backend,
		controls: controls,
	}
}

// Start allocates the render context and transitions to Empty.
func (s *Session) Start(width, height int) error {
	if s.state != StateNew {
		return fmt.Errorf("%w: start from %s", ErrSessionState, s.state)
	}
	if err := s.backend.Init(width, height); err != nil {
		return fmt.Errorf("render context: %w", err)
	}
	s.state = StateEmpty
	logger.Info("scene session started",
		zap.Int("width", width),
		zap.Int("height", height),
	)
	return nil
}

// SetMesh replaces the resident mesh. The outgoing mesh's buffers are
// released before the incoming one is bound, so peak GPU usage never
// exceeds one mesh's footprint. Normals are derived if the mesh lacks them.
func (s *Session) SetMesh(m *mesh.Mesh) error {
	if s.state != StateEmpty && s.state != StateLoaded {
		return fmt.Errorf("%w: set mesh from %s", ErrSessionState, s.state)
	}

	if s.state == StateLoaded {
		s.backend.Release()
		s.current = nil
		s.state = StateEmpty
	}

	m = mesh.DeriveNormals(m)
	if err := s.backend.Upload(m); err != nil {
		return fmt.Errorf("upload mesh: %w", err)
	}
	s.current = m
	s.state = StateLoaded

	logger.Debug("mesh resident",
		zap.Int("vertices", len(m.Positions)),
		zap.Int("triangles", m.TriangleCount()),
	)
	return nil
}

// Resize adjusts the render surface. Valid in any non-disposed state; the
// resident mesh is unaffected.
func (s *Session) Resize(width, height int) {
	if s.state == StateDisposed || s.state == StateNew {
		return
	}
	s.backend.Resize(width, height)
}

// Frame renders one frame, advancing autonomous rotation first. Called at
// the render loop's fixed cadence.
func (s *Session) Frame() {
	if s.state != StateEmpty && s.state != StateLoaded {
		return
	}
	s.backend.Draw(s.controls.Advance())
}

// Mesh returns the resident mesh, or nil.
func (s *Session) Mesh() *mesh.Mesh {
	return s.current
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return s.state
}

// Dispose releases all render resources and stops further drawing.
// Idempotent: repeat calls are no-ops. Release failures are the backend's
// to log; teardown never fails loudly.
func (s *Session) Dispose() {
	if s.state == StateDisposed {
		return
	}
	if s.state != StateNew {
		s.backend.Release()
		s.backend.Destroy()
	}
	s.current = nil
	s.state = StateDisposed
	logger.Info("scene session disposed")
}
