package tpspace

// TableStore persists precomputed trajectory tables so that PTGs which NeedsPersistentStorage do not have to simulate
// them on every start. Tables are keyed by a string derived from the full PTG configuration.
type TableStore interface {
	// LoadTable returns the table stored under key. ok is false if no such table exists.
	LoadTable(key string) (trajs [][]*TrajNode, ok bool, err error)
	// SaveTable stores the table under key, replacing any previous one.
	SaveTable(key string, trajs [][]*TrajNode) error
}

// TrajectoryExporter writes the trajectories of a PTG somewhere for offline inspection.
type TrajectoryExporter interface {
	ExportTrajectories(name string, trajs [][]*TrajNode) error
}

// Option configures optional collaborators of a PTG.
type Option func(*ptgOptions)

type ptgOptions struct {
	store    TableStore
	exporter TrajectoryExporter
}

// WithTableStore loads the precomputed table from store when present, and saves it there after simulating it.
func WithTableStore(store TableStore) Option {
	return func(opts *ptgOptions) {
		opts.store = store
	}
}

// WithExporter sets the destination of DebugDumpInFiles.
func WithExporter(exporter TrajectoryExporter) Option {
	return func(opts *ptgOptions) {
		opts.exporter = exporter
	}
}

func newPTGOptions(opts []Option) ptgOptions {
	var out ptgOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}
