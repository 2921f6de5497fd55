package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(&out, &errOut)
	err := app.Run(append([]string{"ptgtool"}, args...))
	return out.String(), errOut.String(), err
}

func TestFamiliesCommand(t *testing.T) {
	out, _, err := runApp(t, "families")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.Fields(out), test.ShouldResemble, []string{"Alpha", "C", "CC", "CCS", "CS", "Spin"})
}

func TestQueryCommands(t *testing.T) {
	config := writeConfig(t, "ptg.yaml", testYAMLConfig)

	t.Run("describe", func(t *testing.T) {
		out, _, err := runApp(t, "-c", config, "describe")
		test.That(t, err, test.ShouldBeNil)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		test.That(t, lines, test.ShouldHaveLength, 2)
		test.That(t, lines[0], test.ShouldStartWith, "three: C|C PTG")
		test.That(t, lines[0], test.ShouldContainSubstring, "21 paths")
		test.That(t, lines[0], test.ShouldEndWith, "attributes: k=1 num_paths=21 ref_distance=1 v_max_mps=1 w_max_dps=45")
		test.That(t, lines[1], test.ShouldStartWith, "arcs: C PTG")
	})

	t.Run("inverse", func(t *testing.T) {
		out, _, err := runApp(t, "-c", config, "inverse", "--x", "-0.2", "--y", "0", "--ptg", "arcs")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldStartWith, "arcs: k=")
		test.That(t, out, test.ShouldContainSubstring, "hit=true")
		test.That(t, out, test.ShouldNotContainSubstring, "three")
	})

	t.Run("command", func(t *testing.T) {
		out, _, err := runApp(t, "-c", config, "command", "--k", "10", "--ptg", "three")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldEqual, "three: v=1.0000 m/s w=0.7854 rad/s\n")

		_, _, err = runApp(t, "-c", config, "command", "--k", "99")
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("obstacles", func(t *testing.T) {
		out, _, err := runApp(t, "-c", config, "obstacles", "--obstacle", "50:50", "--ptg", "three")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldEqual, "three: all 21 paths free\n")

		out, _, err = runApp(t, "-c", config, "obstacles", "--obstacle", "-0.3:0", "--ptg", "arcs")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "k=10:")

		_, _, err = runApp(t, "-c", config, "obstacles", "--obstacle", "nope")
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("unknown ptg", func(t *testing.T) {
		_, _, err := runApp(t, "-c", config, "describe", "--ptg", "four")
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("no config", func(t *testing.T) {
		_, _, err := runApp(t, "describe")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "no config given")
	})

	t.Run("bad log level", func(t *testing.T) {
		_, _, err := runApp(t, "-c", config, "--log-level", "chatty", "describe")
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestManyPathsWarning(t *testing.T) {
	config := writeConfig(t, "ptg.json", `{
  "ptgs": [
    {"name": "many", "family": "Spin",
     "attributes": {"ref_distance": 0.1, "v_max_mps": 0.5, "w_max_dps": 90, "k": 1, "num_paths": 1001}}
  ]
}`)
	out, errOut, err := runApp(t, "-c", config, "describe")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "1001 paths")
	test.That(t, errOut, test.ShouldContainSubstring, `Warning: PTG "many" simulates 1001 trajectories`)

	_, errOut, err = runApp(t, "-c", writeConfig(t, "ptg.json", testJSONConfig), "describe")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldNotContainSubstring, "Warning")
}

func TestDumpAndPlotCommands(t *testing.T) {
	config := writeConfig(t, "ptg.yaml", testJSONConfig)
	dir := t.TempDir()

	out, _, err := runApp(t, "-c", config, "dump", "--out", dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "dumped 1 PTGs")
	for _, col := range []string{"x", "y", "phi", "t", "d"} {
		_, err := os.Stat(filepath.Join(dir, "PTGspin_"+col+".txt"))
		test.That(t, err, test.ShouldBeNil)
	}

	file := filepath.Join(dir, "spin.png")
	out, _, err = runApp(t, "-c", config, "plot", "--ptg", "spin", "--out", file, "--k", "0", "--k", "5", "--obstacle", "0.1:0.1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrote")
	_, err = os.Stat(file)
	test.That(t, err, test.ShouldBeNil)

	_, _, err = runApp(t, "-c", config, "plot", "--ptg", "spin", "--out", file, "--k", "-1")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestStoreFromConfig(t *testing.T) {
	dir := t.TempDir()
	contents := strings.Replace(testJSONConfig, `"ptgs"`, `"store": "`+filepath.Join(dir, "ptg.db")+`", "ptgs"`, 1)
	config := writeConfig(t, "ptg.json", contents)

	for i := 0; i < 2; i++ {
		_, logs, err := runApp(t, "-c", config, "--debug", "describe")
		test.That(t, err, test.ShouldBeNil)
		if i == 1 {
			test.That(t, logs, test.ShouldContainSubstring, "loaded precomputed PTG table")
		}
	}
	_, err := os.Stat(filepath.Join(dir, "ptg.db"))
	test.That(t, err, test.ShouldBeNil)
}
