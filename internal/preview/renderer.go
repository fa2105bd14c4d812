package preview

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/physical-layout/pkg/geometry"
	"github.com/Faultbox/physical-layout/pkg/instancer"
	"github.com/Faultbox/physical-layout/pkg/math"
)

// instanceLocation is the first of the four per-instance row attributes.
const instanceLocation = 1

// Colors used by the renderer, RGBA.
var (
	InstanceColor = [4]float32{0.78, 0.74, 0.62, 1}
	GhostColor    = [4]float32{0.35, 0.8, 1, 1}
	GroundColor   = [4]float32{0.3, 0.3, 0.34, 1}
)

// ErrNoMasterMesh is returned when instances are drawn before SetMasterMesh.
var ErrNoMasterMesh = errors.New("no master mesh uploaded")

// meshBuffers is a mesh uploaded to a VAO.
type meshBuffers struct {
	vao, vbo, ebo uint32
	count         int32
	mode          uint32
}

func uploadMesh(mesh *geometry.MeshGpuData) meshBuffers {
	m := meshBuffers{count: int32(len(mesh.Indices)), mode: gl.TRIANGLES}
	if mesh.Topology == geometry.Lines {
		m.mode = gl.LINES
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(mesh.Positions) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Positions)*12, unsafe.Pointer(&mesh.Positions[0]), gl.STATIC_DRAW)
	}
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 12, 0)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if len(mesh.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)
	}
	return m
}

func (m *meshBuffers) delete() {
	if m.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	*m = meshBuffers{}
}

// Renderer draws the ground grid, the instanced master mesh and the marker.
type Renderer struct {
	instanced uint32
	lines     uint32

	locView, locProj, locGhost, locColor, locGhostColor int32
	locLineModel, locLineView, locLineProj, locLineColor int32

	master meshBuffers
	marker meshBuffers
	ground meshBuffers

	log *zap.Logger
}

// NewRenderer initializes OpenGL and compiles the preview programs. The GL
// context must be current.
func NewRenderer(log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0.11, 0.11, 0.13, 1)

	r := &Renderer{log: log}
	var err error
	if r.instanced, err = CompileProgram(instancedVertexShader, instancedFragmentShader); err != nil {
		return nil, fmt.Errorf("instanced program: %w", err)
	}
	if r.lines, err = CompileProgram(lineVertexShader, lineFragmentShader); err != nil {
		gl.DeleteProgram(r.instanced)
		return nil, fmt.Errorf("line program: %w", err)
	}

	r.locView = uniform(r.instanced, "uView")
	r.locProj = uniform(r.instanced, "uProj")
	r.locGhost = uniform(r.instanced, "uGhost")
	r.locColor = uniform(r.instanced, "uColor")
	r.locGhostColor = uniform(r.instanced, "uGhostColor")

	r.locLineModel = uniform(r.lines, "uModel")
	r.locLineView = uniform(r.lines, "uView")
	r.locLineProj = uniform(r.lines, "uProj")
	r.locLineColor = uniform(r.lines, "uColor")
	return r, nil
}

// SetMasterMesh uploads the mesh every instance draws and binds buf as its
// per-instance matrix source.
func (r *Renderer) SetMasterMesh(mesh *geometry.MasterMeshData, buf *instancer.GLBuffer) {
	r.master.delete()
	r.master = uploadMesh(&mesh.MeshGpuData)
	buf.BindAttributes(instanceLocation)
	gl.BindVertexArray(0)
}

// SetMarker uploads the marker mesh.
func (r *Renderer) SetMarker(mesh *geometry.MeshGpuData) {
	r.marker.delete()
	r.marker = uploadMesh(mesh)
	gl.BindVertexArray(0)
}

// SetGround uploads a square line grid of the given half size.
func (r *Renderer) SetGround(halfSize float32, cells int) {
	r.ground.delete()
	r.ground = uploadMesh(GroundGrid(halfSize, cells))
	gl.BindVertexArray(0)
}

// Begin clears the frame for a viewport of width x height pixels.
func (r *Renderer) Begin(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawInstances draws the instances of m with one instanced call, tinting
// the ghost instance.
func (r *Renderer) DrawInstances(m *instancer.Manager, view, proj math.Mat4) error {
	if r.master.vao == 0 {
		return ErrNoMasterMesh
	}
	n, err := m.ValidateDraw(m.InstanceCount(), view[:], proj[:])
	if err != nil || n == 0 {
		return err
	}

	ghost := int32(instancer.NoGhost)
	if enabled, id := m.Ghost(); enabled {
		ghost = int32(id)
	}

	gl.UseProgram(r.instanced)
	gl.UniformMatrix4fv(r.locView, 1, false, view.Ptr())
	gl.UniformMatrix4fv(r.locProj, 1, false, proj.Ptr())
	gl.Uniform1i(r.locGhost, ghost)
	gl.Uniform4fv(r.locColor, 1, &InstanceColor[0])
	gl.Uniform4fv(r.locGhostColor, 1, &GhostColor[0])

	gl.BindVertexArray(r.master.vao)
	gl.DrawElementsInstanced(r.master.mode, r.master.count, gl.UNSIGNED_INT, nil, int32(n))
	gl.BindVertexArray(0)
	return nil
}

// DrawMarker draws the marker mesh with the given world matrix.
func (r *Renderer) DrawMarker(model, view, proj math.Mat4, color [4]float32) {
	r.drawLines(r.marker, model, view, proj, color)
}

// DrawGround draws the ground grid.
func (r *Renderer) DrawGround(view, proj math.Mat4) {
	r.drawLines(r.ground, math.Identity(), view, proj, GroundColor)
}

func (r *Renderer) drawLines(mesh meshBuffers, model, view, proj math.Mat4, color [4]float32) {
	if mesh.vao == 0 || mesh.count == 0 {
		return
	}
	gl.UseProgram(r.lines)
	gl.UniformMatrix4fv(r.locLineModel, 1, false, model.Ptr())
	gl.UniformMatrix4fv(r.locLineView, 1, false, view.Ptr())
	gl.UniformMatrix4fv(r.locLineProj, 1, false, proj.Ptr())
	gl.Uniform4fv(r.locLineColor, 1, &color[0])

	gl.BindVertexArray(mesh.vao)
	gl.DrawElements(mesh.mode, mesh.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Close releases GL objects. The instance buffer belongs to its manager.
func (r *Renderer) Close() {
	r.master.delete()
	r.marker.delete()
	r.ground.delete()
	gl.DeleteProgram(r.instanced)
	gl.DeleteProgram(r.lines)
}

// GroundGrid builds a line grid on Z = 0 spanning [-halfSize, halfSize] on X
// and Y with cells divisions per side.
func GroundGrid(halfSize float32, cells int) *geometry.MeshGpuData {
	cells = max(cells, 1)
	mesh := geometry.Empty(geometry.Lines)
	step := 2 * halfSize / float32(cells)
	for i := 0; i <= cells; i++ {
		d := -halfSize + float32(i)*step
		base := uint32(len(mesh.Positions))
		mesh.Positions = append(mesh.Positions,
			[3]float32{d, -halfSize, 0}, [3]float32{d, halfSize, 0},
			[3]float32{-halfSize, d, 0}, [3]float32{halfSize, d, 0},
		)
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base+3)
	}
	return mesh
}
