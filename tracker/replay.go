package tracker

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"github.com/mechspace/armature/armmodel"
)

// traceRecord is one line of a recorded trace. Quaternions are stored as
// [w, x, y, z], positions as [x, y, z].
type traceRecord struct {
	Controller   [4]float64 `json:"controller"`
	Head         [4]float64 `json:"head"`
	HeadPosition [3]float64 `json:"head_position"`
}

// Replay reads tracking samples from a JSON-lines trace file, one record
// per frame. NextFrame returns io.EOF once the trace is exhausted.
type Replay struct {
	f   *os.File
	dec *json.Decoder
}

// OpenReplay opens a trace file for replay.
func OpenReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open trace")
	}
	return &Replay{f: f, dec: json.NewDecoder(f)}, nil
}

// NextFrame decodes the next trace record.
func (r *Replay) NextFrame(ctx context.Context) (armmodel.Frame, error) {
	var rec traceRecord
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return armmodel.Frame{}, io.EOF
		}
		return armmodel.Frame{}, errors.Wrap(err, "failed to decode trace record")
	}
	return armmodel.Frame{
		Controller:   quat.Number{Real: rec.Controller[0], Imag: rec.Controller[1], Jmag: rec.Controller[2], Kmag: rec.Controller[3]},
		Head:         quat.Number{Real: rec.Head[0], Imag: rec.Head[1], Jmag: rec.Head[2], Kmag: rec.Head[3]},
		HeadPosition: r3.Vector{X: rec.HeadPosition[0], Y: rec.HeadPosition[1], Z: rec.HeadPosition[2]},
	}, nil
}

// Close closes the underlying trace file.
func (r *Replay) Close() error {
	return r.f.Close()
}
