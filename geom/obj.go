package geom

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// faces with more corners than this are truncated
const maxFaceCorners = 32

type objLoader struct {
	verts  []float32
	tris   []uint32
	nverts int
	line   int
}

// LoadOBJFile reads a Wavefront OBJ file, see LoadOBJ.
func LoadOBJFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := LoadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadOBJ parses the "v" and "f" records of a Wavefront OBJ stream into an
// indexed mesh. Polygons are fan-triangulated; negative face indices are
// relative to the vertices read so far. Faces referencing missing vertices
// are skipped.
func LoadOBJ(r io.Reader) (*Mesh, error) {
	l := &objLoader{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		l.line++
		row := strings.TrimSpace(sc.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		if err := l.parseRow(strings.Fields(row)); err != nil {
			return nil, fmt.Errorf("obj line %d: %w", l.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if l.tris == nil {
		l.tris = []uint32{}
	}
	return &Mesh{Positions: l.verts, Indices: l.tris}, nil
}

func (l *objLoader) parseRow(ss []string) error {
	switch ss[0] {
	case "v":
		return l.parseVertex(ss[1:])
	case "f":
		return l.parseFace(ss[1:])
	}
	return nil
}

func (l *objLoader) parseVertex(ss []string) error {
	if len(ss) < 3 {
		return fmt.Errorf("vertex needs 3 coordinates, got %d", len(ss))
	}
	var xyz [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(ss[i], 32)
		if err != nil {
			return err
		}
		xyz[i] = float32(f)
	}
	l.verts = append(l.verts, xyz[0], xyz[1], xyz[2])
	l.nverts++
	return nil
}

func (l *objLoader) parseFace(ss []string) error {
	data := make([]int, 0, len(ss))
	for _, s := range ss {
		// v, v/vt, v/vt/vn and v//vn all start with the position index.
		vs := strings.SplitN(s, "/", 2)
		vi, err := strconv.Atoi(vs[0])
		if err != nil {
			return err
		}
		if vi < 0 {
			vi += l.nverts
		} else {
			vi--
		}
		data = append(data, vi)
		if len(data) >= maxFaceCorners {
			break
		}
	}
	for i := 2; i < len(data); i++ {
		a, b, c := data[0], data[i-1], data[i]
		if a < 0 || a >= l.nverts || b < 0 || b >= l.nverts || c < 0 || c >= l.nverts {
			continue
		}
		l.tris = append(l.tris, uint32(a), uint32(b), uint32(c))
	}
	return nil
}
