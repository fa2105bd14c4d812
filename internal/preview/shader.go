package preview

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Instance rows arrive as four vec4 attributes; mat4(r0..r3) takes them as
// columns, so the transpose is the world matrix.
const instancedVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aRow0;
layout (location = 2) in vec4 aRow1;
layout (location = 3) in vec4 aRow2;
layout (location = 4) in vec4 aRow3;

uniform mat4 uView;
uniform mat4 uProj;
uniform int uGhost;

flat out int vGhost;

void main() {
    mat4 world = transpose(mat4(aRow0, aRow1, aRow2, aRow3));
    vGhost = gl_InstanceID == uGhost ? 1 : 0;
    gl_Position = uProj * uView * world * vec4(aPos, 1.0);
}
`

const instancedFragmentShader = `#version 410 core
flat in int vGhost;

uniform vec4 uColor;
uniform vec4 uGhostColor;

out vec4 FragColor;

void main() {
    FragColor = vGhost == 1 ? uGhostColor : uColor;
}
`

const lineVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

void main() {
    gl_Position = uProj * uView * uModel * vec4(aPos, 1.0);
}
`

const lineFragmentShader = `#version 410 core
uniform vec4 uColor;

out vec4 FragColor;

void main() {
    FragColor = uColor;
}
`

// CompileProgram compiles vertex and fragment shaders and links them into a
// program.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", msg)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, msg)
	}
	return shader, nil
}

func infoLog(object uint32, param func(uint32, uint32, *int32), read func(uint32, int32, *int32, *uint8)) string {
	var n int32
	param(object, gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	buf := make([]byte, n)
	read(object, n, nil, &buf[0])
	return string(buf)
}

// uniform returns the location of name, -1 when inactive.
func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
