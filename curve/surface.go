package curve

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/polyforge/scenekit/utils"
)

// NURBSSurface is a rational B-spline surface over a Control[u][v] grid with
// independent degrees and knot vectors per direction.
type NURBSSurface struct {
	DegreeU int
	DegreeV int
	KnotsU  []float32
	KnotsV  []float32
	Control [][]ControlPoint
}

func (s *NURBSSurface) Validate() error {
	if s.DegreeU < 1 || s.DegreeV < 1 {
		return errors.Errorf("nurbs surface degrees (%d,%d) must be positive", s.DegreeU, s.DegreeV)
	}
	if len(s.Control) == 0 || len(s.Control[0]) == 0 {
		return errors.Errorf("nurbs surface has an empty control grid")
	}
	cols := len(s.Control[0])
	for i, row := range s.Control {
		if len(row) != cols {
			return errors.Errorf("nurbs surface control row %d has %d points, want %d", i, len(row), cols)
		}
	}
	if len(s.KnotsU) != len(s.Control)+s.DegreeU+1 {
		return errors.Errorf("nurbs surface U knot count %d != rows %d + degree %d + 1",
			len(s.KnotsU), len(s.Control), s.DegreeU)
	}
	if len(s.KnotsV) != cols+s.DegreeV+1 {
		return errors.Errorf("nurbs surface V knot count %d != cols %d + degree %d + 1",
			len(s.KnotsV), cols, s.DegreeV)
	}
	return nil
}

// Point evaluates the surface at normalized (u,v). Basis values combine
// multiplicatively across the two directions.
func (s *NURBSSurface) Point(u, v float32) mgl32.Vec3 {
	if len(s.Control) == 0 || len(s.Control[0]) == 0 {
		return mgl32.Vec3{}
	}
	loU := s.KnotsU[s.DegreeU]
	hiU := s.KnotsU[len(s.KnotsU)-1-s.DegreeU]
	loV := s.KnotsV[s.DegreeV]
	hiV := s.KnotsV[len(s.KnotsV)-1-s.DegreeV]
	uu := loU + utils.Clamp01(u)*(hiU-loU)
	vv := loV + utils.Clamp01(v)*(hiV-loV)

	nu := len(s.Control) - 1
	nv := len(s.Control[0]) - 1
	spanU := findSpan(nu, s.DegreeU, uu, s.KnotsU)
	spanV := findSpan(nv, s.DegreeV, vv, s.KnotsV)
	basisU := basisFuns(spanU, uu, s.DegreeU, s.KnotsU)
	basisV := basisFuns(spanV, vv, s.DegreeV, s.KnotsV)

	var acc mgl32.Vec3
	var wsum float32
	for i := 0; i <= s.DegreeU; i++ {
		for j := 0; j <= s.DegreeV; j++ {
			cp := s.Control[spanU-s.DegreeU+i][spanV-s.DegreeV+j]
			bw := basisU[i] * basisV[j] * cp.Weight
			acc = acc.Add(cp.Point.Mul(bw))
			wsum += bw
		}
	}
	if wsum != 0 && wsum != 1 {
		acc = acc.Mul(1 / wsum)
	}
	return acc
}
