package common

import (
	"cmp"
	"math"
)

// / Returns the square of the value.
func Sqr[T IT](a T) T {
	return a * a
}

// / Returns the absolute value.
func Abs[T IT](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

// / Performs a vector subtraction. (@p v1 - @p v2)
func Vsub[T float64 | float32](res, v1, v2 []T) {
	res[0] = v1[0] - v2[0]
	res[1] = v1[1] - v2[1]
	res[2] = v1[2] - v2[2]
}

// / Selects the minimum value of each element from the specified vectors.
// / @param[in,out]	mn	A vector.  (Will be updated with the result.) [(x, y, z)]
func Vmin[T float64 | float32](mn, v []T) {
	mn[0] = min(mn[0], v[0])
	mn[1] = min(mn[1], v[1])
	mn[2] = min(mn[2], v[2])
}

// / Selects the maximum value of each element from the specified vectors.
// / @param[in,out]	mx	A vector.  (Will be updated with the result.) [(x, y, z)]
func Vmax[T float64 | float32](mx, v []T) {
	mx[0] = max(mx[0], v[0])
	mx[1] = max(mx[1], v[1])
	mx[2] = max(mx[2], v[2])
}

// / Derives the cross product of two vectors. (@p v1 x @p v2)
func Vcross[T float64 | float32](res []T, v1, v2 []T) {
	res[0] = v1[1]*v2[2] - v1[2]*v2[1]
	res[1] = v1[2]*v2[0] - v1[0]*v2[2]
	res[2] = v1[0]*v2[1] - v1[1]*v2[0]
}

// / Normalizes the vector. Zero-length vectors are left untouched.
func Vnormalize[T float64 | float32](v []T) {
	l := math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
	if l == 0 {
		return
	}
	d := T(1.0 / l)
	v[0] *= d
	v[1] *= d
	v[2] *= d
}

func Clamp[T cmp.Ordered](value, minInclusive, maxInclusive T) T {
	if value < minInclusive {
		return minInclusive
	}
	if value > maxInclusive {
		return maxInclusive
	}
	return value
}

func IsFinite[T float64 | float32](v T) bool {
	f := float64(v)
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// / Gets the standard width (x-axis) offset for the specified direction.
// / @param[in]		direction		The direction. [Limits: 0 <= value < 4]
func GetDirOffsetX(direction int) int {
	offset := [4]int{-1, 0, 1, 0}
	return offset[direction&0x03]
}

// / Gets the standard height (z-axis) offset for the specified direction.
func GetDirOffsetY(direction int) int {
	offset := [4]int{0, 1, 0, -1}
	return offset[direction&0x03]
}
