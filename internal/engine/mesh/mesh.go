// Package mesh uploads models to OpenGL vertex and index buffers.
package mesh

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/scop/pkg/formats"
)

// Attribute locations shared with the model shader.
const (
	PositionLocation = 0
	ColorLocation    = 1
	TexCoordLocation = 2
)

// Mesh is a VAO with its vertex buffer and optional index buffer.
type Mesh struct {
	vao, vbo, ebo uint32
	mode          uint32
	count         int32
}

// Upload creates an indexed triangle mesh from a model.
func Upload(model *formats.Model) *Mesh {
	m := upload(model.Vertices, gl.TRIANGLES)
	if len(model.Indices) > 0 {
		gl.BindVertexArray(m.vao)
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(model.Indices)*4, unsafe.Pointer(&model.Indices[0]), gl.STATIC_DRAW)
		gl.BindVertexArray(0)
	}
	m.count = int32(len(model.Indices))
	return m
}

// UploadLines creates a non-indexed line-list mesh, e.g. a bounding box.
func UploadLines(vertices []formats.Vertex) *Mesh {
	m := upload(vertices, gl.LINES)
	m.count = int32(len(vertices))
	return m
}

func upload(vertices []formats.Vertex, mode uint32) *Mesh {
	m := &Mesh{mode: mode}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	data := (&formats.Model{Vertices: vertices}).VertexData()
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}

	stride := int32(formats.FloatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(PositionLocation, 3, gl.FLOAT, false, stride, uintptr(formats.PositionOffset))
	gl.EnableVertexAttribArray(PositionLocation)
	gl.VertexAttribPointerWithOffset(ColorLocation, 3, gl.FLOAT, false, stride, uintptr(formats.ColorOffset))
	gl.EnableVertexAttribArray(ColorLocation)
	gl.VertexAttribPointerWithOffset(TexCoordLocation, 2, gl.FLOAT, false, stride, uintptr(formats.TexCoordOffset))
	gl.EnableVertexAttribArray(TexCoordLocation)

	gl.BindVertexArray(0)
	return m
}

// Draw issues the draw call.
func (m *Mesh) Draw() {
	if m.count == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	if m.ebo != 0 {
		gl.DrawElements(m.mode, m.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(m.mode, 0, m.count)
	}
	gl.BindVertexArray(0)
}

// Delete releases the GL objects.
func (m *Mesh) Delete() {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
}
