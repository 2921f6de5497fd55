// Package ptgstore persists precomputed PTG trajectory tables in a sqlite database.
package ptgstore

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	// sqlite driver registered as "sqlite".
	_ "modernc.org/sqlite"

	"go.viam.com/ptgnav/motionplan/tpspace"
)

const schema = `
	CREATE TABLE IF NOT EXISTS ptg_tables (
		table_key         TEXT PRIMARY KEY,
		num_paths         BIGINT,
		created           TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS ptg_nodes (
		table_key         TEXT,
		k                 BIGINT,
		idx               BIGINT,
		alpha             DOUBLE,
		x                 DOUBLE,
		y                 DOUBLE,
		phi               DOUBLE,
		t                 DOUBLE,
		dist              DOUBLE,
		v                 DOUBLE,
		w                 DOUBLE,
		PRIMARY KEY(table_key, k, idx),
		FOREIGN KEY(table_key) REFERENCES ptg_tables(table_key)
	);
`

// Store is a tpspace.TableStore backed by a sqlite file.
type Store struct {
	db *sql.DB
}

var _ tpspace.TableStore = (*Store)(nil)

// busyTimeoutPragma makes a connection wait for a lock held by another process instead of failing with SQLITE_BUSY.
const busyTimeoutPragma = "_pragma=busy_timeout(5000)"

// NewStore opens, creating if necessary, the sqlite database at path. The store is safe for concurrent use; PTGs
// built concurrently may share one.
func NewStore(path string) (*Store, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", path+sep+busyTimeoutPragma)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open PTG store %q", path)
	}
	// sqlite allows a single writer; one connection serializes access from this process.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		return nil, multierr.Combine(errors.Wrap(err, "failed to create PTG store schema"), db.Close())
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadTable returns the table saved under key, if any.
func (s *Store) LoadTable(key string) ([][]*tpspace.TrajNode, bool, error) {
	var numPaths int64
	err := s.db.QueryRow(`SELECT num_paths FROM ptg_tables WHERE table_key = ?`, key).Scan(&numPaths)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to look up PTG table %q", key)
	}

	rows, err := s.db.Query(
		`SELECT k, alpha, x, y, phi, t, dist, v, w FROM ptg_nodes WHERE table_key = ? ORDER BY k, idx`,
		key,
	)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read PTG table %q", key)
	}
	defer rows.Close()

	trajs := make([][]*tpspace.TrajNode, numPaths)
	for rows.Next() {
		var k int64
		node := &tpspace.TrajNode{}
		if err := rows.Scan(&k, &node.Alpha, &node.X, &node.Y, &node.Phi, &node.Time, &node.Dist, &node.V, &node.W); err != nil {
			return nil, false, errors.Wrapf(err, "failed to scan PTG table %q", key)
		}
		if k < 0 || k >= numPaths {
			return nil, false, errors.Errorf("PTG table %q has node for alpha index %d but only %d paths", key, k, numPaths)
		}
		node.K = uint(k)
		trajs[k] = append(trajs[k], node)
	}
	if err := rows.Err(); err != nil {
		return nil, false, errors.Wrapf(err, "failed to read PTG table %q", key)
	}
	return trajs, true, nil
}

// SaveTable replaces whatever is stored under key with trajs.
func (s *Store) SaveTable(key string, trajs [][]*tpspace.TrajNode) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin PTG table transaction")
	}
	defer func() {
		if err != nil {
			err = multierr.Combine(err, tx.Rollback())
		}
	}()

	if _, err := tx.Exec(`DELETE FROM ptg_nodes WHERE table_key = ?`, key); err != nil {
		return errors.Wrapf(err, "failed to clear PTG table %q", key)
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO ptg_tables (table_key, num_paths) VALUES (?, ?)`,
		key, len(trajs),
	); err != nil {
		return errors.Wrapf(err, "failed to save PTG table %q", key)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO ptg_nodes (table_key, k, idx, alpha, x, y, phi, t, dist, v, w)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return errors.Wrap(err, "failed to prepare PTG node insert")
	}
	defer func() {
		err = multierr.Combine(err, stmt.Close())
	}()

	for k, traj := range trajs {
		for idx, node := range traj {
			if _, err := stmt.Exec(key, k, idx, node.Alpha, node.X, node.Y, node.Phi, node.Time, node.Dist, node.V, node.W); err != nil {
				return errors.Wrapf(err, "failed to save node %d of trajectory %d", idx, k)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit PTG table")
	}
	return nil
}

// Keys returns the keys of every stored table.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT table_key FROM ptg_tables ORDER BY table_key`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list PTG tables")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
