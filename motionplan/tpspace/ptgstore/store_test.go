package ptgstore

import (
	"fmt"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/motionplan/tpspace"
	"go.viam.com/ptgnav/utils"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "ptg.db"))
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() {
		test.That(t, store.Close(), test.ShouldBeNil)
	})
	return store
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.LoadTable("missing")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)

	trajs := [][]*tpspace.TrajNode{
		{
			{K: 0, Alpha: -1.5},
			{K: 0, Alpha: -1.5, X: 0.1, Y: -0.02, Phi: -0.3, Time: 0.1, Dist: 0.1, V: 1, W: -0.5},
		},
		{
			{K: 1, Alpha: 1.5, V: 1, W: 0.5},
		},
	}
	test.That(t, store.SaveTable("a", trajs), test.ShouldBeNil)

	loaded, ok, err := store.LoadTable("a")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, loaded, test.ShouldResemble, trajs)

	// saving again replaces rather than appends
	test.That(t, store.SaveTable("a", trajs[1:]), test.ShouldBeNil)
	loaded, ok, err = store.LoadTable("a")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, loaded, test.ShouldHaveLength, 1)
	test.That(t, loaded[0], test.ShouldHaveLength, 1)
	test.That(t, loaded[0][0].Alpha, test.ShouldEqual, 1.5)

	keys, err := store.Keys()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, keys, test.ShouldResemble, []string{"a"})
}

func TestStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ptg.db")
	store, err := NewStore(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, store.SaveTable("k", [][]*tpspace.TrajNode{{{Alpha: 0.25, Dist: 0}}}), test.ShouldBeNil)
	test.That(t, store.Close(), test.ShouldBeNil)

	store, err = NewStore(path)
	test.That(t, err, test.ShouldBeNil)
	defer store.Close()
	loaded, ok, err := store.LoadTable("k")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, loaded[0][0].Alpha, test.ShouldEqual, 0.25)
}

func TestStoreWithPTG(t *testing.T) {
	store := newTestStore(t)
	logger, logs := logging.NewObservedTestLogger(t)
	attrs := utils.AttributeMap{"ref_distance": 0.5, "v_max_mps": 1, "w_max_dps": 45, "k": 1, "num_paths": 15}

	simulated, err := tpspace.NewPTG("CS", attrs, logger, tpspace.WithTableStore(store))
	test.That(t, err, test.ShouldBeNil)
	keys, err := store.Keys()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, keys, test.ShouldHaveLength, 1)

	loaded, err := tpspace.NewPTG("CS", attrs, logger, tpspace.WithTableStore(store))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logs.FilterMessage("loaded precomputed PTG table").Len(), test.ShouldEqual, 1)

	for k := uint(0); k < simulated.AlphaCount(); k++ {
		want, err := simulated.Trajectory(k, 0)
		test.That(t, err, test.ShouldBeNil)
		got, err := loaded.Trajectory(k, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldResemble, want)
	}

	x, y := 0.3, 0.05
	k1, d1, hit1 := simulated.WorldSpaceToTP(x, y, tpspace.DefaultInverseMapTolerance)
	k2, d2, hit2 := loaded.WorldSpaceToTP(x, y, tpspace.DefaultInverseMapTolerance)
	test.That(t, k2, test.ShouldEqual, k1)
	test.That(t, d2, test.ShouldEqual, d1)
	test.That(t, hit2, test.ShouldEqual, hit1)
}

func TestStoreSharedByGroup(t *testing.T) {
	store := newTestStore(t)
	logger, logs := logging.NewObservedTestLogger(t)

	var entries []tpspace.GroupEntry
	for i := 1; i <= 6; i++ {
		entries = append(entries, tpspace.GroupEntry{
			Name:   fmt.Sprintf("cs%d", i),
			Family: "CS",
			Attributes: utils.AttributeMap{
				"ref_distance": 0.25 * float64(i), "v_max_mps": 1, "w_max_dps": 45, "k": 1, "num_paths": 15,
			},
		})
	}

	_, err := tpspace.NewGroup(entries, logger, tpspace.WithTableStore(store))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logs.FilterLevelExact(zapcore.WarnLevel).Len(), test.ShouldEqual, 0)
	keys, err := store.Keys()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, keys, test.ShouldHaveLength, len(entries))

	_, err = tpspace.NewGroup(entries, logger, tpspace.WithTableStore(store))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logs.FilterMessage("loaded precomputed PTG table").Len(), test.ShouldEqual, len(entries))
	test.That(t, logs.FilterLevelExact(zapcore.WarnLevel).Len(), test.ShouldEqual, 0)
}
