package chart

import (
	"bytes"
	"testing"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyoichi/sparsemodel"
)

func TestPointData(t *testing.T) {
	pc := sparsemodel.PointCloud{
		IDs:       []uint64{1, 2, 3, 4, 5},
		Positions: make([][3]float64, 5),
		Colors:    [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, 0}, {1, 1, 1}},
	}
	test := []struct {
		max  int
		want []string
	}{
		{0, []string{"1", "2", "3", "4", "5"}},
		{10, []string{"1", "2", "3", "4", "5"}},
		{2, []string{"1", "4"}},
		{3, []string{"1", "3", "5"}},
	}
	for _, tt := range test {
		data := PointData(pc, tt.max)
		var names []string
		for _, d := range data {
			names = append(names, d.Name)
		}
		assert.Equal(t, tt.want, names, "max=%d", tt.max)
	}
	assert.Equal(t, "rgb(255,0,0)", PointData(pc, 0)[0].ItemStyle.Color)
}

func TestRender(t *testing.T) {
	m := &sparsemodel.Model{
		Images: map[int32]sparsemodel.Image{
			1: {ID: 1, Qvec: [4]float64{1, 0, 0, 0}, Name: "a.jpg"},
		},
		Points: map[uint64]sparsemodel.Point3D{
			1: {ID: 1, XYZ: [3]float64{0, 0, 1}, RGB: [3]uint8{10, 20, 30}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, m, Options{Title: "sparse", FrustumScale: 0.5}))
	assert.Contains(t, buf.String(), "a.jpg")
	assert.Contains(t, buf.String(), "frustums")
	assert.Contains(t, buf.String(), `"type":"line3D"`)

	bad := &sparsemodel.Model{Images: map[int32]sparsemodel.Image{1: {ID: 1}}}
	assert.ErrorIs(t, Render(&buf, bad, Options{}), sparsemodel.ErrDegenerateRotation)
}

func TestFrustumPath(t *testing.T) {
	m := &sparsemodel.Model{
		Images: map[int32]sparsemodel.Image{
			1: {ID: 1, Qvec: [4]float64{1, 0, 0, 0}, Tvec: [3]float64{1, 2, 3}, Name: "a.jpg"},
		},
	}
	frustums, err := m.Frustums(2)
	require.NoError(t, err)
	require.Len(t, frustums, 1)
	f := frustums[0]

	path := FrustumPath("a.jpg", f)
	require.Len(t, path, 16)

	edges := make(map[[2][3]float64]bool)
	for _, l := range f.Lines() {
		a := [3]float64{l[0].X, l[0].Y, l[0].Z}
		b := [3]float64{l[1].X, l[1].Y, l[1].Z}
		edges[[2][3]float64{a, b}] = true
		edges[[2][3]float64{b, a}] = true
	}
	point := func(d opts.Chart3DData) [3]float64 {
		return [3]float64{d.Value[0].(float64), d.Value[1].(float64), d.Value[2].(float64)}
	}
	// every segment of the polyline is a frustum edge or has zero length
	for i := 1; i < len(path); i++ {
		a, b := point(path[i-1]), point(path[i])
		assert.True(t, a == b || edges[[2][3]float64{a, b}], "segment %d: %v -> %v", i, a, b)
	}
	assert.Equal(t, "a.jpg", path[0].Name)
}
