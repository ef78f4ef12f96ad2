// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SurfaceVertexShader transforms the surface mesh, or the marker point when
// uDrawPoint is set.
//
//go:embed surface.vert
var SurfaceVertexShader string

// SurfaceFragmentShader shades the textured surface and the marker.
//
//go:embed surface.frag
var SurfaceFragmentShader string
