package utils

import (
	"testing"

	"go.viam.com/test"
)

type attrsConfig struct {
	RefDistance float64 `json:"ref_distance"`
	NumPaths    uint    `json:"num_paths"`
	Name        string  `json:"name"`
}

func TestTransformAttributeMap(t *testing.T) {
	attrs := AttributeMap{
		"ref_distance": 2,
		"num_paths":    "31",
		"name":         "cc",
		"extra":        true,
		"another":      1.5,
	}
	conf, unused, err := TransformAttributeMap[*attrsConfig](attrs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.RefDistance, test.ShouldEqual, 2.)
	test.That(t, conf.NumPaths, test.ShouldEqual, uint(31))
	test.That(t, conf.Name, test.ShouldEqual, "cc")
	test.That(t, unused, test.ShouldResemble, []string{"another", "extra"})

	valConf, _, err := TransformAttributeMap[attrsConfig](AttributeMap{"ref_distance": 0.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, valConf.RefDistance, test.ShouldEqual, 0.5)

	_, _, err = TransformAttributeMap[*attrsConfig](AttributeMap{"ref_distance": "far"})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAttributeMapAccessors(t *testing.T) {
	attrs := AttributeMap{"a": 1, "b": 2.5, "s": "str"}
	test.That(t, attrs.Has("a"), test.ShouldBeTrue)
	test.That(t, attrs.Has("z"), test.ShouldBeFalse)
	test.That(t, attrs.Float64("a", 0), test.ShouldEqual, 1.)
	test.That(t, attrs.Float64("b", 0), test.ShouldEqual, 2.5)
	test.That(t, attrs.Float64("s", 7), test.ShouldEqual, 7.)
	test.That(t, attrs.Keys(), test.ShouldResemble, []string{"a", "b", "s"})

	var nilMap AttributeMap
	test.That(t, nilMap.Float64("a", 3), test.ShouldEqual, 3.)
}
