// Package export writes generated surface meshes to interchange formats.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/surfview/pkg/surface"
)

// ErrEmptyMesh is returned when there is nothing to export.
var ErrEmptyMesh = errors.New("export: empty mesh")

// Document builds a glTF 2.0 document holding mesh as one triangle-strip
// primitive with POSITION, NORMAL and TEXCOORD_0 attributes.
func Document(mesh *surface.Mesh, name string) (*gltf.Document, error) {
	n := mesh.VertexCount()
	if n == 0 {
		return nil, ErrEmptyMesh
	}

	positions := make([][3]float32, n)
	normals := make([][3]float32, n)
	texCoords := make([][2]float32, n)
	for i := range n {
		v := mesh.Vertex(i)
		positions[i] = v.Position
		normals[i] = v.Normal
		texCoords[i] = v.TexCoord
	}

	doc := gltf.NewDocument()
	attrs := map[string]int{
		gltf.POSITION:   modeler.WritePosition(doc, positions),
		gltf.NORMAL:     modeler.WriteNormal(doc, normals),
		gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, texCoords),
	}

	doc.Meshes = []*gltf.Mesh{{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Attributes: attrs,
			Mode:       gltf.PrimitiveTriangleStrip,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

// WriteGLTF writes mesh to path. A .glb extension selects the binary
// container; anything else is written as JSON with the buffer embedded.
func WriteGLTF(mesh *surface.Mesh, path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc, err := Document(mesh, name)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".glb") {
		if err := gltf.SaveBinary(doc, path); err != nil {
			return fmt.Errorf("export %s: %w", path, err)
		}
		return nil
	}

	for _, b := range doc.Buffers {
		if b.URI == "" {
			b.EmbeddedResource()
		}
	}
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
