package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/yyyoichi/sparsemodel"
)

type Options struct {
	Title string
	// MaxPoints limits the rendered points by keeping every n-th one; 0 keeps all.
	MaxPoints int
	// FrustumScale draws each camera frustum at this depth when positive.
	FrustumScale float64
}

// Render writes an HTML page with the colored point cloud, the camera
// centers and, optionally, the camera frustums of m.
func Render(w io.Writer, m *sparsemodel.Model, o Options) error {
	poses, err := m.CameraPoses()
	if err != nil {
		return err
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	scatter.AddSeries("points", PointData(m.PointCloud(), o.MaxPoints))

	cameras := make([]opts.Chart3DData, 0, len(poses))
	for _, p := range poses {
		cameras = append(cameras, opts.Chart3DData{
			Name:  p.Name,
			Value: []interface{}{p.Center.X, p.Center.Y, p.Center.Z},
		})
	}
	scatter.AddSeries("cameras", cameras, charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}))

	if o.FrustumScale > 0 {
		frustums, err := m.Frustums(o.FrustumScale)
		if err != nil {
			return err
		}
		// line3D series share the scatter's cartesian3D grid
		lines := charts.NewLine3D()
		for i, f := range frustums {
			lines.AddSeries("frustums", FrustumPath(poses[i].Name, f),
				charts.WithLineStyleOpts(opts.LineStyle{Color: "orange", Width: 1}))
		}
		scatter.MultiSeries = append(scatter.MultiSeries, lines.MultiSeries...)
	}
	return scatter.Render(w)
}

// PointData converts a point cloud into chart data, keeping at most limit
// points by stride.
func PointData(pc sparsemodel.PointCloud, limit int) []opts.Chart3DData {
	stride := 1
	if limit > 0 && pc.Len() > limit {
		stride = (pc.Len() + limit - 1) / limit
	}
	data := make([]opts.Chart3DData, 0, pc.Len()/stride+1)
	for i := 0; i < pc.Len(); i += stride {
		p, c := pc.Positions[i], pc.Colors[i]
		data = append(data, opts.Chart3DData{
			Name:  fmt.Sprintf("%d", pc.IDs[i]),
			Value: []interface{}{p[0], p[1], p[2]},
			ItemStyle: &opts.ItemStyle{
				Color: fmt.Sprintf("rgb(%d,%d,%d)", int(c[0]*255+0.5), int(c[1]*255+0.5), int(c[2]*255+0.5)),
			},
		})
	}
	return data
}

// FrustumPath lays the frustum edges end to end as one polyline. Each edge
// starts where the previous one ended or joins its endpoints along another
// frustum edge, so the polyline draws nothing outside the frustum.
func FrustumPath(name string, f sparsemodel.Frustum) []opts.Chart3DData {
	lines := f.Lines()
	data := make([]opts.Chart3DData, 0, 2*len(lines))
	for _, l := range lines {
		for _, v := range l {
			data = append(data, opts.Chart3DData{
				Name:  name,
				Value: []interface{}{v.X, v.Y, v.Z},
			})
		}
	}
	return data
}
