package scene

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/facet-go/common"
	"github.com/Carmen-Shannon/facet-go/viewer/camera"
	"github.com/Carmen-Shannon/facet-go/viewer/light"
	"github.com/Carmen-Shannon/facet-go/viewer/mesh"
)

// Transform places a model in world space: translation, Euler rotation, and a
// uniform scale factor.
type Transform struct {
	Position common.Vec3
	Rotation common.Vec3
	Scale    float32
}

// IdentityTransform returns the no-op transform (zero translation and
// rotation, scale 1).
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// Matrix returns the model-to-world matrix for the transform.
//
// Returns:
//   - common.Mat4: the column-major model matrix
func (t Transform) Matrix() common.Mat4 {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return common.RigidTransform(t.Position, t.Rotation, scale)
}

// modelEntry is one displayed model: its mesh, placement, and a generation
// counter that increments on every mesh replacement so the render layer knows
// when its GPU buffers are stale.
type modelEntry struct {
	id         string
	mesh       mesh.Mesh
	transform  Transform
	generation uint64
}

// ModelSnapshot is a read-only view of one model entry, returned by Models().
type ModelSnapshot struct {
	ID         string
	Mesh       mesh.Mesh
	Transform  Transform
	Generation uint64
}

// LayoutResult pairs a model ID with its built GPU buffer layout and the
// generation the layout was built from.
type LayoutResult struct {
	ID         string
	Layout     mesh.BufferLayout
	Generation uint64
}

// Scene manages the set of displayed models together with the camera and
// lighting environment. Models are keyed by string ID; replacing a model's
// mesh is atomic from the point of view of readers, so a frame renders either
// the old mesh or the new one, never a mix. Thread-safe for concurrent access.
type Scene interface {
	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Light returns the scene's directional light.
	Light() light.Light

	// SetLight replaces the scene's directional light.
	//
	// Parameters:
	//   - l: the new light
	SetLight(l light.Light)

	// AmbientColor returns the scene's ambient light color.
	//
	// Returns:
	//   - [3]float32: the ambient RGB color
	AmbientColor() [3]float32

	// SetAmbientColor sets the scene's ambient light color.
	//
	// Parameters:
	//   - color: the ambient RGB color
	SetAmbientColor(color [3]float32)

	// SetModel adds a model or replaces an existing model's mesh. The mesh is
	// validated first; on validation failure the scene is left untouched and
	// the previous mesh (if any) keeps rendering. A successful replacement
	// bumps the model's generation counter.
	//
	// Parameters:
	//   - id: the model's unique identifier
	//   - m: the mesh to display
	//
	// Returns:
	//   - error: an mesh.ErrInvalidMesh-wrapped error if validation fails
	SetModel(id string, m mesh.Mesh) error

	// RemoveModel removes a model from the scene. Unknown IDs are a no-op.
	//
	// Parameters:
	//   - id: the model's unique identifier
	RemoveModel(id string)

	// Model returns a snapshot of one model.
	//
	// Parameters:
	//   - id: the model's unique identifier
	//
	// Returns:
	//   - ModelSnapshot: the model's current state
	//   - bool: false if the ID is unknown
	Model(id string) (ModelSnapshot, bool)

	// Models returns snapshots of every model, ordered by ID for deterministic
	// iteration.
	//
	// Returns:
	//   - []ModelSnapshot: the scene's models
	Models() []ModelSnapshot

	// Count returns the number of models in the scene.
	//
	// Returns:
	//   - int: the model count
	Count() int

	// SetTransform sets a model's world placement.
	//
	// Parameters:
	//   - id: the model's unique identifier
	//   - t: the new transform
	//
	// Returns:
	//   - error: if the ID is unknown
	SetTransform(id string, t Transform) error

	// Generation returns a model's current generation counter. The counter
	// starts at 1 and increments on every SetModel replacement; the render
	// layer compares it against the generation its GPU buffers were built from.
	//
	// Parameters:
	//   - id: the model's unique identifier
	//
	// Returns:
	//   - uint64: the generation counter
	//   - bool: false if the ID is unknown
	Generation(id string) (uint64, bool)

	// BuildLayouts builds GPU buffer layouts for the given models in parallel
	// on the scene's worker pool. Passing no IDs builds every model. Meshes
	// were validated on SetModel, so per-model build errors indicate internal
	// inconsistency and abort the whole batch.
	//
	// Parameters:
	//   - ids: model IDs to build, or none for all
	//
	// Returns:
	//   - []LayoutResult: built layouts ordered by ID
	//   - error: the first build failure, or an unknown-ID error
	BuildLayouts(ids ...string) ([]LayoutResult, error)

	// FrameData assembles the per-frame uniform block from the camera and
	// lighting state. The camera's matrices are recomputed from its controller
	// first; a headlight's direction is rewritten to the camera view direction.
	//
	// Returns:
	//   - GPUFrameData: the frame uniform block
	FrameData() GPUFrameData

	// ModelData returns the per-model uniform block for one model.
	//
	// Parameters:
	//   - id: the model's unique identifier
	//
	// Returns:
	//   - GPUModelData: the model uniform block
	//   - bool: false if the ID is unknown
	ModelData(id string) (GPUModelData, bool)

	// BoundingRadius returns the radius of a sphere around the world origin
	// that encloses every model, accounting for transforms. Returns 0 for an
	// empty scene.
	//
	// Returns:
	//   - float32: the enclosing radius
	BoundingRadius() float32

	// Clear removes all models from the scene. Camera, light, and ambient
	// color are untouched.
	Clear()
}

type scene struct {
	mu *sync.RWMutex

	cam     camera.Camera
	lgt     light.Light
	ambient [3]float32

	models map[string]*modelEntry

	// layoutPool runs the CPU-side mesh-to-buffer conversion for multiple
	// models in parallel. Workers persist across calls, avoiding per-batch
	// goroutine spawn/teardown overhead.
	layoutPool    worker.DynamicWorkerPool
	layoutWorkers int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene. A default camera (with orbit controller) and
// headlight are attached when no options override them.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:            &sync.RWMutex{},
		ambient:       [3]float32{0.1, 0.1, 0.1},
		models:        make(map[string]*modelEntry),
		layoutWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	if s.cam == nil {
		s.cam = camera.NewCamera(camera.WithController(camera.NewCameraController()))
	}
	if s.lgt == nil {
		s.lgt = light.NewLight()
	}

	// Initialize the layout pool after options so WithLayoutWorkers can
	// override the default. Queue size of 256 accommodates typical model
	// counts with headroom.
	s.layoutPool = worker.NewDynamicWorkerPool(s.layoutWorkers, 256, 1*time.Second)

	return s
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Light() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lgt
}

func (s *scene) SetLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lgt = l
}

func (s *scene) AmbientColor() [3]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ambient
}

func (s *scene) SetAmbientColor(color [3]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambient = color
}

func (s *scene) SetModel(id string, m mesh.Mesh) error {
	// Validate outside the lock so a slow validation of a big mesh does not
	// stall concurrent readers.
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.models[id]; ok {
		entry.mesh = m
		entry.generation++
		return nil
	}
	s.models[id] = &modelEntry{
		id:         id,
		mesh:       m,
		transform:  IdentityTransform(),
		generation: 1,
	}
	return nil
}

func (s *scene) RemoveModel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.models, id)
}

func (s *scene) Model(id string) (ModelSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.models[id]
	if !ok {
		return ModelSnapshot{}, false
	}
	return snapshotLocked(entry), true
}

func (s *scene) Models() []ModelSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ModelSnapshot, 0, len(s.models))
	for _, entry := range s.models {
		out = append(out, snapshotLocked(entry))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.models)
}

func (s *scene) SetTransform(id string, t Transform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.models[id]
	if !ok {
		return fmt.Errorf("scene: unknown model %q", id)
	}
	entry.transform = t
	return nil
}

func (s *scene) Generation(id string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.models[id]
	if !ok {
		return 0, false
	}
	return entry.generation, true
}

func (s *scene) BuildLayouts(ids ...string) ([]LayoutResult, error) {
	// Snapshot the requested meshes under the read lock, then build outside it.
	s.mu.RLock()
	if len(ids) == 0 {
		ids = make([]string, 0, len(s.models))
		for id := range s.models {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	snaps := make([]ModelSnapshot, 0, len(ids))
	for _, id := range ids {
		entry, ok := s.models[id]
		if !ok {
			s.mu.RUnlock()
			return nil, fmt.Errorf("scene: unknown model %q", id)
		}
		snaps = append(snaps, snapshotLocked(entry))
	}
	s.mu.RUnlock()

	results := make([]LayoutResult, len(snaps))
	errs := make([]error, len(snaps))
	var wg sync.WaitGroup
	for i, snap := range snaps {
		wg.Add(1)
		idx, sc := i, snap // capture for closure
		s.layoutPool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				layout, err := mesh.Build(sc.Mesh)
				if err != nil {
					errs[idx] = fmt.Errorf("scene: building layout for %q: %w", sc.ID, err)
					return nil, errs[idx]
				}
				results[idx] = LayoutResult{ID: sc.ID, Layout: layout, Generation: sc.Generation}
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *scene) FrameData() GPUFrameData {
	s.mu.RLock()
	cam := s.cam
	lgt := s.lgt
	ambient := s.ambient
	s.mu.RUnlock()

	cam.Update()

	// A camera without a controller has no view direction to track; the light
	// keeps its configured direction.
	if lgt.Headlight() {
		if ctrl := cam.Controller(); ctrl != nil {
			px, py, pz := ctrl.Position()
			tx, ty, tz := ctrl.Target()
			lgt.SetDirection(tx-px, ty-py, tz-pz)
		}
	}

	frame := GPUFrameData{
		View:       cam.ViewMatrix(),
		Projection: cam.ProjectionMatrix(),
		Ambient:    [4]float32{ambient[0], ambient[1], ambient[2], 0},
	}
	if lgt.Enabled() {
		d := lgt.Direction()
		c := lgt.Color()
		frame.LightDirection = [4]float32{d[0], d[1], d[2], lgt.Intensity()}
		frame.LightColor = [4]float32{c[0], c[1], c[2], 0}
	}
	return frame
}

func (s *scene) ModelData(id string) (GPUModelData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.models[id]
	if !ok {
		return GPUModelData{}, false
	}
	return GPUModelData{Model: entry.transform.Matrix()}, true
}

func (s *scene) BoundingRadius() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var radius float32
	for _, entry := range s.models {
		scale := entry.transform.Scale
		if scale == 0 {
			scale = 1
		}
		r := mesh.ComputeBoundingRadius(entry.mesh)*scale + entry.transform.Position.Len()
		if r > radius {
			radius = r
		}
	}
	return radius
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = make(map[string]*modelEntry)
}

// snapshotLocked copies an entry into a read-only snapshot.
// Caller must hold at least the read lock.
func snapshotLocked(entry *modelEntry) ModelSnapshot {
	return ModelSnapshot{
		ID:         entry.id,
		Mesh:       entry.mesh,
		Transform:  entry.transform,
		Generation: entry.generation,
	}
}
