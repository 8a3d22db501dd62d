package camera

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownModel = errors.New("unknown camera model")
)

// Model is a named lens parametrization. NumParams intrinsic doubles follow
// every camera record that uses it.
type Model struct {
	ID         int32
	Name       string
	NumParams  int
	ParamNames []string
}

// The ids and parameter counts must match the producer's enumeration exactly;
// a wrong count shifts every following record.
var models = [...]Model{
	{0, "SIMPLE_PINHOLE", 3, []string{"f", "cx", "cy"}},
	{1, "PINHOLE", 4, []string{"fx", "fy", "cx", "cy"}},
	{2, "SIMPLE_RADIAL", 4, []string{"f", "cx", "cy", "k"}},
	{3, "RADIAL", 5, []string{"f", "cx", "cy", "k1", "k2"}},
	{4, "OPENCV", 8, []string{"fx", "fy", "cx", "cy", "k1", "k2", "p1", "p2"}},
	{5, "OPENCV_FISHEYE", 8, []string{"fx", "fy", "cx", "cy", "k1", "k2", "k3", "k4"}},
	{6, "FULL_OPENCV", 12, []string{"fx", "fy", "cx", "cy", "k1", "k2", "p1", "p2", "k3", "k4", "k5", "k6"}},
	{7, "FOV", 5, []string{"fx", "fy", "cx", "cy", "omega"}},
	{8, "SIMPLE_RADIAL_FISHEYE", 4, []string{"f", "cx", "cy", "k"}},
	{9, "RADIAL_FISHEYE", 5, []string{"f", "cx", "cy", "k1", "k2"}},
	{10, "THIN_PRISM_FISHEYE", 12, []string{"fx", "fy", "cx", "cy", "k1", "k2", "p1", "p2", "k3", "k4", "sx1", "sy1"}},
}

// Lookup resolves a model id.
func Lookup(id int32) (Model, error) {
	if id < 0 || int(id) >= len(models) {
		return Model{}, fmt.Errorf("%w: id %d", ErrUnknownModel, id)
	}
	return models[id], nil
}

// LookupName resolves a model by its name.
func LookupName(name string) (Model, bool) {
	for _, m := range models {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

// Models returns a copy of the catalog ordered by id.
func Models() []Model {
	out := make([]Model, len(models))
	copy(out, models[:])
	return out
}
