package geom

import "github.com/go-gl/mathgl/mgl32"

// Box returns an indexed axis-aligned box of the given size centred on the
// origin, 8 vertices and 12 outward-facing triangles.
func Box(size mgl32.Vec3) *Mesh {
	hx, hy, hz := size[0]/2, size[1]/2, size[2]/2
	return &Mesh{
		Positions: []float32{
			-hx, -hy, -hz,
			hx, -hy, -hz,
			hx, hy, -hz,
			-hx, hy, -hz,
			-hx, -hy, hz,
			hx, -hy, hz,
			hx, hy, hz,
			-hx, hy, hz,
		},
		Indices: []uint32{
			0, 2, 1, 0, 3, 2, // -z
			4, 5, 6, 4, 6, 7, // +z
			0, 1, 5, 0, 5, 4, // -y
			3, 7, 6, 3, 6, 2, // +y
			0, 4, 7, 0, 7, 3, // -x
			1, 2, 6, 1, 6, 5, // +x
		},
	}
}

// Quad returns an upward-facing rectangle in the xz-plane centred on the origin.
func Quad(width, depth float32) *Mesh {
	hw, hd := width/2, depth/2
	return &Mesh{
		Positions: []float32{
			-hw, 0, -hd,
			hw, 0, -hd,
			hw, 0, hd,
			-hw, 0, hd,
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}
