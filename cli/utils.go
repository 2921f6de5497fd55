package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	if _, err := fmt.Fprintf(w, format+"\n", a...); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write output: %v\n", err)
	}
}

// infof prints a message prefixed with "Info: ".
func infof(w io.Writer, format string, a ...interface{}) {
	printf(w, "Info: "+format, a...)
}

// warningf prints a message prefixed with "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	printf(w, "Warning: "+format, a...)
}

// parsePoint parses "x:y" in meters.
func parsePoint(raw string) (r2.Point, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return r2.Point{}, errors.Errorf("point %q must be of the form x:y", raw)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return r2.Point{}, errors.Wrapf(err, "bad x in point %q", raw)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return r2.Point{}, errors.Wrapf(err, "bad y in point %q", raw)
	}
	return r2.Point{X: x, Y: y}, nil
}

func parsePoints(raw []string) ([]r2.Point, error) {
	points := make([]r2.Point, 0, len(raw))
	for _, r := range raw {
		pt, err := parsePoint(r)
		if err != nil {
			return nil, err
		}
		points = append(points, pt)
	}
	return points, nil
}
