package viewer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/meshforge/meshview/internal/logger"
	"github.com/meshforge/meshview/internal/mesh"
	"github.com/meshforge/meshview/pkg/geom"
)

const viewerVertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;

void main() {
    vNormal = mat3(uModel) * aNormal;
    gl_Position = uProjection * uView * uModel * vec4(aPosition, 1.0);
}
` + "\x00"

const viewerFragmentShader = `#version 410 core
in vec3 vNormal;

uniform vec3 uLightDir;
uniform vec3 uAmbient;
uniform vec3 uDiffuse;
uniform vec3 uBaseColor;

out vec4 FragColor;

void main() {
    vec3 normal = normalize(vNormal);
    vec3 lightDir = normalize(uLightDir);
    float diff = max(dot(normal, lightDir), 0.0);
    vec3 result = (uAmbient + diff * uDiffuse) * uBaseColor;
    FragColor = vec4(result, 1.0);
}
` + "\x00"

// glVertex is the interleaved GPU vertex layout.
type glVertex struct {
	Position [3]float32
	Normal   [3]float32
}

// GLBackend renders the scene with OpenGL. All methods must run on the
// thread that owns the GL context.
type GLBackend struct {
	width  int32
	height int32

	program       uint32
	locModel      int32
	locView       int32
	locProjection int32
	locLightDir   int32
	locAmbient    int32
	locDiffuse    int32
	locBaseColor  int32

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// NewGLBackend creates an uninitialized GL backend.
func NewGLBackend() *GLBackend {
	return &GLBackend{}
}

// Init initializes OpenGL and compiles the viewer shader.
// Must be called after the GL context exists.
func (b *GLBackend) Init(width, height int) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	program, err := compileProgram(viewerVertexShader, viewerFragmentShader)
	if err != nil {
		return fmt.Errorf("viewer shader: %w", err)
	}
	b.program = program

	b.locModel = uniform(program, "uModel")
	b.locView = uniform(program, "uView")
	b.locProjection = uniform(program, "uProjection")
	b.locLightDir = uniform(program, "uLightDir")
	b.locAmbient = uniform(program, "uAmbient")
	b.locDiffuse = uniform(program, "uDiffuse")
	b.locBaseColor = uniform(program, "uBaseColor")

	b.width = int32(width)
	b.height = int32(height)
	gl.Viewport(0, 0, b.width, b.height)

	return nil
}

// Upload makes the mesh render-resident as VAO/VBO/EBO buffers.
func (b *GLBackend) Upload(m *mesh.Mesh) error {
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("empty mesh")
	}

	vertices := make([]glVertex, len(m.Positions))
	for i, p := range m.Positions {
		vertices[i].Position = p
		if i < len(m.Normals) {
			vertices[i].Normal = m.Normals[i]
		}
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(unsafe.Sizeof(glVertex{})), unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	stride := int32(unsafe.Sizeof(glVertex{}))
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	b.indexCount = int32(len(m.Indices))
	return nil
}

// Release deletes the resident mesh's buffers.
func (b *GLBackend) Release() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
		b.ebo = 0
	}
	b.indexCount = 0
}

// Resize adjusts the viewport; the aspect ratio follows on the next Draw.
func (b *GLBackend) Resize(width, height int) {
	b.width = int32(width)
	b.height = int32(height)
	gl.Viewport(0, 0, b.width, b.height)
}

// Draw renders one frame.
func (b *GLBackend) Draw(view ViewState) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if b.vao == 0 || b.indexCount == 0 {
		return
	}

	gl.UseProgram(b.program)

	aspect := float32(b.width) / float32(b.height)
	projection := geom.Perspective(0.785398, aspect, 0.1, 100.0) // 45 degrees FOV

	eye := geom.Vec3{Z: view.Distance}
	viewMat := geom.LookAt(eye, geom.Vec3{}, geom.Vec3{Y: 1})

	// Orientation is applied to the mesh, not the camera.
	model := geom.RotateX(view.Pitch).Mul(geom.RotateY(view.Yaw))

	gl.UniformMatrix4fv(b.locProjection, 1, false, projection.Ptr())
	gl.UniformMatrix4fv(b.locView, 1, false, viewMat.Ptr())
	gl.UniformMatrix4fv(b.locModel, 1, false, model.Ptr())

	gl.Uniform3f(b.locLightDir, 0.5, 1.0, 0.5)
	gl.Uniform3f(b.locAmbient, 0.35, 0.35, 0.35)
	gl.Uniform3f(b.locDiffuse, 0.65, 0.65, 0.65)
	gl.Uniform3f(b.locBaseColor, 0.75, 0.78, 0.82)

	gl.BindVertexArray(b.vao)
	gl.DrawElements(gl.TRIANGLES, b.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Destroy releases the shader program. Mesh buffers are released separately.
func (b *GLBackend) Destroy() {
	if b.program != 0 {
		gl.DeleteProgram(b.program)
		b.program = 0
	}
}

// compileProgram compiles and links the vertex and fragment shaders.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
