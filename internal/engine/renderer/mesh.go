package renderer

import (
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/globalpulse/pkg/geo"
	"github.com/Faultbox/globalpulse/pkg/math"
)

// Vertex layouts, in floats.
const (
	SphereStride = 8 // position, normal, uv
	StarStride   = 4 // position, size
	LineStride   = 7 // position, rgba
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices for the given stride.
func (m Mesh) VertexCount(stride int) int {
	return len(m.Vertices) / stride
}

// Sphere builds a latitude/longitude sphere whose vertices lie where
// geo.Project puts the same coordinates, so an equirectangular texture maps
// with u = (lon+180)/360 and v = (90-lat)/180. Triangles wind
// counter-clockwise seen from outside.
func Sphere(radius float32, rings, segments int) Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	verts := make([]float32, 0, (rings+1)*(segments+1)*SphereStride)
	for i := 0; i <= rings; i++ {
		v := float32(i) / float32(rings)
		lat := 90 - 180*float64(v)
		for j := 0; j <= segments; j++ {
			u := float32(j) / float32(segments)
			lon := -180 + 360*float64(u)

			n := geo.Project(lat, lon, 1)
			verts = append(verts,
				n.X*radius, n.Y*radius, n.Z*radius,
				n.X, n.Y, n.Z,
				u, v,
			)
		}
	}

	idx := make([]uint32, 0, rings*segments*6)
	row := uint32(segments + 1)
	for i := 0; i < rings; i++ {
		for j := 0; j < segments; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			idx = append(idx, a, b, a+1, a+1, b, b+1)
		}
	}

	return Mesh{Vertices: verts, Indices: idx}
}

// StarField scatters count points in a shell between radius and
// radius+depth, uniformly over directions. Each point carries a size factor.
func StarField(count int, radius, depth float32, rng *rand.Rand) []float32 {
	if count <= 0 {
		return nil
	}
	out := make([]float32, 0, count*StarStride)
	for i := 0; i < count; i++ {
		r := radius + depth*rng.Float32()
		phi := gomath.Acos(1 - 2*rng.Float64())
		theta := 2 * gomath.Pi * rng.Float64()

		sinPhi := float32(gomath.Sin(phi))
		out = append(out,
			r*sinPhi*float32(gomath.Sin(theta)),
			r*float32(gomath.Cos(phi)),
			r*sinPhi*float32(gomath.Cos(theta)),
			0.5+rng.Float32(),
		)
	}
	return out
}

// Callout is one marker as the renderer sees it.
type Callout struct {
	Points [3]math.Vec3 // surface, knee, anchor in globe space
	Color  [3]float32
	Alpha  float32 // line alpha
}

// CalloutLines expands callouts into GL_LINES vertices: two segments per
// callout, surface to knee and knee to anchor.
func CalloutLines(callouts []Callout) []float32 {
	out := make([]float32, 0, len(callouts)*4*LineStride)
	for _, c := range callouts {
		p := c.Points
		for _, seg := range [2][2]math.Vec3{{p[0], p[1]}, {p[1], p[2]}} {
			for _, v := range seg {
				out = append(out, v.X, v.Y, v.Z, c.Color[0], c.Color[1], c.Color[2], c.Alpha)
			}
		}
	}
	return out
}

// HexColor splits 0xRRGGBB into floats in [0,1].
func HexColor(v uint32) [3]float32 {
	return [3]float32{
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}
}
