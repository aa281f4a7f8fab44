// Package tracker provides sources of head and controller tracking samples
// for the arm model. A source could be a live headset bridge; the ones here
// are synthetic generators and trace replays used for simulation and tests.
package tracker

import (
	"context"

	"github.com/mechspace/armature/armmodel"
)

// A Source produces one tracking sample per rendering frame.
type Source interface {
	// NextFrame returns the next tracking sample. Finite sources return
	// io.EOF once exhausted.
	NextFrame(ctx context.Context) (armmodel.Frame, error)
	Close() error
}

// Static is a source that reports the same sample forever, for holding a
// pose steady in scenarios and tests.
type Static struct {
	Frame armmodel.Frame
}

// NextFrame returns the fixed sample.
func (s *Static) NextFrame(ctx context.Context) (armmodel.Frame, error) {
	return s.Frame, nil
}

// Close does nothing.
func (s *Static) Close() error {
	return nil
}
