package tpspace

import (
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/utils"
)

// ccLaw returns a C|C steering law without simulating its trajectories.
func ccLaw(maxMPS, maxDPS, k float64) *ptgDiffDriveCC {
	maxRPS := utils.DegToRad(maxDPS)
	return &ptgDiffDriveCC{maxMPS: maxMPS, maxRPS: maxRPS, k: k, r: maxMPS / maxRPS}
}

func TestCCPhases(t *testing.T) {
	// R = 4/pi and u = pi/4, so the reverse arc lasts one second and the forward arc two more.
	ptg := ccLaw(1, 45, 1)
	w := math.Pi / 4

	for _, tc := range []struct {
		name string
		t    float64
		v, w float64
	}{
		{"start reverses", 0, -1, w},
		{"reverse arc", 0.5, -1, w},
		{"forward arc", 1.5, 1, w},
		{"end of forward arc", 2.99, 1, w},
		{"stopped", 3.5, 0, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v, w := ptg.PTGVelocities(math.Pi/2, tc.t, 0, 0, 0)
			test.That(t, v, test.ShouldAlmostEqual, tc.v)
			test.That(t, w, test.ShouldAlmostEqual, tc.w)
		})
	}

	t.Run("alpha zero skips the reverse arc", func(t *testing.T) {
		v, w := ptg.PTGVelocities(0, 0, 0, 0, 0)
		test.That(t, v, test.ShouldAlmostEqual, 1.)
		test.That(t, w, test.ShouldAlmostEqual, math.Pi/4)
	})
}

func TestCCSignAndGain(t *testing.T) {
	unit := ccLaw(1, 45, 1)
	scaled := ccLaw(1, 45, -2)
	for _, alpha := range []float64{0.3, 1.2, 2.8} {
		for _, tm := range []float64{0, 0.4, 1.7, 2.5, 10} {
			v, w := unit.PTGVelocities(alpha, tm, 0, 0, 0)
			vNeg, wNeg := unit.PTGVelocities(-alpha, tm, 0, 0, 0)
			test.That(t, vNeg, test.ShouldAlmostEqual, v)
			test.That(t, wNeg, test.ShouldAlmostEqual, -w)

			vK, wK := scaled.PTGVelocities(alpha, tm, 0, 0, 0)
			test.That(t, vK, test.ShouldAlmostEqual, -2*v)
			test.That(t, wK, test.ShouldAlmostEqual, -2*w)
		}
	}
}

func TestCCDomain(t *testing.T) {
	ptg := ccLaw(1, 45, 1)
	r := ptg.r

	for _, tc := range []struct {
		x, y float64
		in   bool
	}{
		{0, 0, true},
		{0, r, true},
		{0, -r, true},
		{r, r, true},
		{-r, -r, true},
		{0.5 * r, 1.5 * r, true},
		{0, 2.01 * r, false},
		{r + 0.01, r, false},
		{r, 0.1, false},
		{-1.1 * r, 0, false},
	} {
		test.That(t, ptg.IsIntoDomain(tc.x, tc.y), test.ShouldEqual, tc.in)
	}
}

func TestCCDomainConsistency(t *testing.T) {
	ptg, err := NewCCPTG(testConfig(2.), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ptg.Description(), test.ShouldEqual, "C|C PTG (v_max=1.000 m/s, w_max=45.000 deg/s, K=1.000)")

	for x := -2.; x <= 2.; x += 0.25 {
		for y := -3.; y <= 3.; y += 0.25 {
			if !ptg.IsIntoDomain(x, y) {
				continue
			}
			k, _, hit := ptg.WorldSpaceToTP(x, y, math.Inf(1))
			test.That(t, hit, test.ShouldBeTrue)
			test.That(t, k, test.ShouldBeLessThan, ptg.AlphaCount())
		}
	}

	t.Run("first command", func(t *testing.T) {
		cmd, err := ptg.DirectionToMotionCommand(0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cmd[0], test.ShouldAlmostEqual, -1.)
		test.That(t, cmd[1], test.ShouldAlmostEqual, -math.Pi/4)

		cmd, err = ptg.DirectionToMotionCommand(45)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cmd[0], test.ShouldAlmostEqual, 1.)
		test.That(t, cmd[1], test.ShouldAlmostEqual, math.Pi/4)
	})
}

func TestOtherLaws(t *testing.T) {
	w := utils.DegToRad(45)

	t.Run("circle", func(t *testing.T) {
		ptg := &ptgDiffDriveC{maxMPS: 1, maxRPS: w, k: -1}
		v, wOut := ptg.PTGVelocities(math.Pi/2, 3, 0, 0, 0)
		test.That(t, v, test.ShouldAlmostEqual, -1.)
		test.That(t, wOut, test.ShouldAlmostEqual, -w/2)
	})

	t.Run("cs", func(t *testing.T) {
		ptg := &ptgDiffDriveCS{maxMPS: 1, maxRPS: w, k: 1, r: 1 / w}
		_, wOut := ptg.PTGVelocities(-1, 0, 0, 0, 0)
		test.That(t, wOut, test.ShouldAlmostEqual, -w*(1-math.Exp(-1)))
		v, wOut := ptg.PTGVelocities(-1, 100, 0, 0, 0)
		test.That(t, v, test.ShouldAlmostEqual, 1.)
		test.That(t, wOut, test.ShouldAlmostEqual, 0.)
	})

	t.Run("ccs ends straight", func(t *testing.T) {
		ptg := &ptgDiffDriveCCS{maxMPS: 1, maxRPS: w, k: 1, r: 1 / w}
		v, wOut := ptg.PTGVelocities(math.Pi/2, 3.5, 0, 0, 0)
		test.That(t, v, test.ShouldAlmostEqual, 1.)
		test.That(t, wOut, test.ShouldAlmostEqual, 0.)
	})

	t.Run("alpha", func(t *testing.T) {
		ptg := &simPTGAlpha{maxMPS: 1, maxRPS: w, a0v: utils.DegToRad(45), a0w: utils.DegToRad(45)}
		v, wOut := ptg.PTGVelocities(0.5, 0, 0.1, 0.2, 0.5)
		test.That(t, v, test.ShouldAlmostEqual, 1.)
		test.That(t, wOut, test.ShouldAlmostEqual, 0.)
		_, wOut = ptg.PTGVelocities(1, 0, 0, 0, 0)
		test.That(t, wOut, test.ShouldBeGreaterThan, 0.)
	})

	t.Run("spin", func(t *testing.T) {
		ptg := &ptgDiffDriveSpin{maxMPS: 1, maxRPS: w, k: 1}
		v, wOut := ptg.PTGVelocities(math.Pi/2, 1, 0, 0, 0)
		test.That(t, v, test.ShouldEqual, 0.)
		test.That(t, wOut, test.ShouldAlmostEqual, w)
		v, wOut = ptg.PTGVelocities(math.Pi/2, 2.5, 0, 0, 0)
		test.That(t, v, test.ShouldEqual, 1.)
		test.That(t, wOut, test.ShouldEqual, 0.)
	})
}
