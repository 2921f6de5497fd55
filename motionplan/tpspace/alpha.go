package tpspace

import (
	"fmt"
	"math"

	"go.viam.com/ptgnav/utils"
)

// AlphaIndexOutOfRangeError is returned when a trajectory index is not within [0, alpha count).
type AlphaIndexOutOfRangeError struct {
	K        uint
	NumPaths uint
}

func (e *AlphaIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("alpha index %d out of range [0, %d)", e.K, e.NumPaths)
}

// NewAlphaIndexOutOfRangeError returns an error for an alpha index outside [0, numPaths).
func NewAlphaIndexOutOfRangeError(k, numPaths uint) error {
	return &AlphaIndexOutOfRangeError{K: k, NumPaths: numPaths}
}

// index2alpha maps k to the center of its bucket: the numPaths buckets evenly partition (-pi, pi].
func index2alpha(k, numPaths uint) (float64, error) {
	if k >= numPaths {
		return math.NaN(), NewAlphaIndexOutOfRangeError(k, numPaths)
	}
	return math.Pi * (-1.0 + 2.0*(float64(k)+0.5)/float64(numPaths)), nil
}

// alpha2index is the inverse of index2alpha, rounding to the nearest bucket. pi and -pi are the same heading and both
// land in the last bucket. A NaN or infinite alpha has no heading and maps to 0.
func alpha2index(alpha float64, numPaths uint) uint {
	if numPaths == 0 || !utils.IsFinite(alpha) {
		return 0
	}
	alpha = utils.WrapToPi(alpha)
	idx := math.Round(0.5 * (float64(numPaths)*(1.0+alpha/math.Pi) - 1.0))
	if math.IsNaN(idx) || idx <= 0 {
		return 0
	}
	if idx >= float64(numPaths) {
		return numPaths - 1
	}
	return uint(idx)
}
