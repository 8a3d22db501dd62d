package colmap

import "github.com/yyyoichi/bitstream-go"

// TriangulatedMask packs one bit per observation, set when the observation
// has a 3D point. Bit i corresponds to Observations[i].
func (img Image) TriangulatedMask() *bitstream.BitReader[uint64] {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, o := range img.Observations {
		w.WriteBool(o.Triangulated())
	}
	r := bitstream.NewBitReader(w.Data(), 0, 0)
	r.SetBits(len(img.Observations))
	return r
}

// NumTriangulated counts observations linked to a 3D point.
func (img Image) NumTriangulated() int {
	var n int
	for _, o := range img.Observations {
		if o.Triangulated() {
			n++
		}
	}
	return n
}
