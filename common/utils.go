package common

import "github.com/go-gl/mathgl/mgl32"

type Vec3 = mgl32.Vec3
type Mat4 = mgl32.Mat4

type IT interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}
type IIndex interface {
	~int | ~int8 | ~int16 | ~int32 | ~uint | ~uint8 | ~uint16 | ~uint32
}

// GetVert3 returns the xyz triple at index from a flat vertex buffer.
func GetVert3[T IT, T1 IIndex](verts []T, index T1) []T {
	return verts[index*3 : index*3+3]
}

// ToVec3 copies a flat triple into an mgl32 vector.
func ToVec3(v []float32) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// TransformPoint applies m to the point v (w = 1) and writes the result into res.
func TransformPoint(res []float32, m Mat4, v []float32) {
	p := m.Mul4x1(mgl32.Vec4{v[0], v[1], v[2], 1})
	if p[3] != 0 && p[3] != 1 {
		p = p.Mul(1 / p[3])
	}
	res[0], res[1], res[2] = p[0], p[1], p[2]
}
