// Package ptgio exports PTG trajectories for offline inspection, as plain text tables and as rendered plots.
package ptgio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/ptgnav/motionplan/tpspace"
)

// dumpColumns are the per-node quantities written by a Dumper, one file each.
var dumpColumns = []struct {
	suffix string
	value  func(*tpspace.TrajNode) float64
}{
	{"x", func(n *tpspace.TrajNode) float64 { return n.X }},
	{"y", func(n *tpspace.TrajNode) float64 { return n.Y }},
	{"phi", func(n *tpspace.TrajNode) float64 { return n.Phi }},
	{"t", func(n *tpspace.TrajNode) float64 { return n.Time }},
	{"d", func(n *tpspace.TrajNode) float64 { return n.Dist }},
}

// Dumper writes trajectories into OutputDir as PTG<name>_{x,y,phi,t,d}.txt. Each file has one space separated row per
// alpha index.
type Dumper struct {
	OutputDir string
}

var _ tpspace.TrajectoryExporter = (*Dumper)(nil)

// NewDumper returns a Dumper writing into dir.
func NewDumper(dir string) *Dumper {
	return &Dumper{OutputDir: dir}
}

// FileName returns the path of the file holding one column of the dump.
func (d *Dumper) FileName(name, column string) string {
	return filepath.Join(d.OutputDir, fmt.Sprintf("PTG%s_%s.txt", name, column))
}

// ExportTrajectories writes every column file for trajs.
func (d *Dumper) ExportTrajectories(name string, trajs [][]*tpspace.TrajNode) error {
	if err := os.MkdirAll(d.OutputDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create dump directory")
	}
	for _, col := range dumpColumns {
		if err := writeColumn(d.FileName(name, col.suffix), trajs, col.value); err != nil {
			return err
		}
	}
	return nil
}

func writeColumn(path string, trajs [][]*tpspace.TrajNode, value func(*tpspace.TrajNode) float64) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", path)
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	w := csv.NewWriter(f)
	w.Comma = ' '
	for _, traj := range trajs {
		row := make([]string, 0, len(traj))
		for _, node := range traj {
			row = append(row, strconv.FormatFloat(value(node), 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write %q", path)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "failed to write %q", path)
}
