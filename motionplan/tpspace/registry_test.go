package tpspace

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/utils"
)

func TestRegisteredFamilies(t *testing.T) {
	test.That(t, RegisteredFamilies(), test.ShouldResemble, []string{"Alpha", "C", "CC", "CCS", "CS", "Spin"})
}

func TestRegisterPTGDuplicate(t *testing.T) {
	test.That(t, func() { RegisterPTG("cc", fromAttributes(NewCCPTG)) }, test.ShouldPanic)
	test.That(t, func() { RegisterPTG("brand-new", nil) }, test.ShouldPanic)
}

func TestNewPTG(t *testing.T) {
	attrs := utils.AttributeMap{
		"ref_distance": 1.,
		"v_max_mps":    "1",
		"w_max_dps":    45,
		"k":            1,
		"num_paths":    31,
	}

	t.Run("family lookup is case insensitive", func(t *testing.T) {
		for _, family := range []string{"CC", "cc", "Cc"} {
			ptg, err := NewPTG(family, attrs, logging.NewTestLogger(t))
			test.That(t, err, test.ShouldBeNil)
			test.That(t, ptg.Description(), test.ShouldStartWith, "C|C PTG")
			test.That(t, ptg.AlphaCount(), test.ShouldEqual, uint(31))
			_, ok := ptg.(DiffDrivePTG)
			test.That(t, ok, test.ShouldBeTrue)
		}
	})

	t.Run("every family builds", func(t *testing.T) {
		for _, family := range RegisteredFamilies() {
			ptg, err := NewPTG(family, attrs, nil)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, ptg.RefDistance(), test.ShouldEqual, 1.)
		}
	})

	t.Run("unknown family", func(t *testing.T) {
		_, err := NewPTG("holonomic", attrs, logging.NewTestLogger(t))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, utils.IsConfigValidationError(err), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, `unknown PTG family "holonomic"`)
	})

	t.Run("missing key", func(t *testing.T) {
		missing := utils.AttributeMap{"ref_distance": 1., "w_max_dps": 45, "k": 1}
		_, err := NewPTG("CC", missing, logging.NewTestLogger(t))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, utils.IsConfigValidationError(err), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, `"v_max_mps" is required`)
	})

	t.Run("undecodable value", func(t *testing.T) {
		bad := utils.AttributeMap{"ref_distance": map[string]int{"far": 1}, "v_max_mps": 1, "w_max_dps": 45, "k": 1}
		_, err := NewPTG("CC", bad, logging.NewTestLogger(t))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, utils.IsConfigValidationError(err), test.ShouldBeTrue)
	})

	t.Run("unknown attributes are warned about", func(t *testing.T) {
		logger, logs := logging.NewObservedTestLogger(t)
		extra := utils.AttributeMap{"ref_distance": 1., "v_max_mps": 1, "w_max_dps": 45, "cte_a0v_deg": 30, "wheelbase": 0.3}
		ptg, err := NewPTG("alpha", extra, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ptg.Description(), test.ShouldContainSubstring, "a0v=30.0 deg")
		entries := logs.FilterMessage("ignoring unknown PTG attributes").All()
		test.That(t, entries, test.ShouldHaveLength, 1)
		test.That(t, entries[0].ContextMap()["attributes"], test.ShouldResemble, []interface{}{"wheelbase"})
	})
}
