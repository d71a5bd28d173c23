// BOSECONTROL - Sends remote-control codes over RF from a Raspberry Pi clock pin.
// Copyright (C) 2016 Douglas Hall
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package modulate plays a pulse train by retuning the clock between a
// primary and a substitute frequency.
//
// The receiver keys on carrier presence but the clock cannot be stopped and
// restarted fast enough, so every space is sent on a substitute frequency the
// receiver does not hear. Timing is best effort: the only suspension point is
// one sleep per entry and scheduler jitter can only lengthen it.
package modulate

import (
	"context"
	"io/ioutil"
	"time"

	"github.com/bemasher/bosecontrol/nec"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
	"periph.io/x/conn/v3/physic"
)

// Calibration is subtracted from every entry before sleeping. It covers the
// register write and sleep overhead and was found by comparing against the
// factory remote on a receiver.
const Calibration = 100 * time.Microsecond

// Synthesizer retunes the carrier.
type Synthesizer interface {
	SetFrequency(physic.Frequency) error
}

// Output grounds the carrier.
type Output interface {
	Disable()
}

// Step describes one played entry.
type Step struct {
	Index     int
	Pulse     int
	Frequency physic.Frequency
	Wait      time.Duration
}

// Engine plays pulse trains. It is not safe for concurrent use; the hardware
// has one clock and one writer.
type Engine struct {
	synth Synthesizer
	out   Output

	sleep       func(time.Duration)
	calibration time.Duration
	trace       func(Step)
	log         logrus.FieldLogger
}

type Option func(*Engine)

// WithSleep replaces the wait primitive. It is called once per entry,
// including with zero.
func WithSleep(sleep func(time.Duration)) Option {
	return func(e *Engine) { e.sleep = sleep }
}

// WithCalibration overrides Calibration.
func WithCalibration(d time.Duration) Option {
	return func(e *Engine) { e.calibration = d }
}

// WithTrace calls fn after each entry's wait.
func WithTrace(fn func(Step)) Option {
	return func(e *Engine) { e.trace = fn }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

func New(synth Synthesizer, out Output, opts ...Option) *Engine {
	log := logrus.New()
	log.Out = ioutil.Discard

	e := &Engine{
		synth:       synth,
		out:         out,
		sleep:       Sleep,
		calibration: Calibration,
		log:         log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sleep blocks for d. Non-positive durations return immediately.
func Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

// Wait returns the sleep requested for an entry: its magnitude less the
// calibration, never negative.
func Wait(pulse int, calibration time.Duration) time.Duration {
	d := nec.Abs(pulse) - calibration
	if d < 0 {
		return 0
	}
	return d
}

// Play drives the synthesizer through train and grounds the output when it
// finishes. Entries greater than zero are sent on primary, all others on
// substitute. The output is also grounded when the synthesizer fails or ctx is
// cancelled; cancellation is noticed between entries.
func (e *Engine) Play(ctx context.Context, train nec.Train, primary, substitute physic.Frequency) (err error) {
	defer e.out.Disable()

	start := time.Now()
	e.log.WithFields(logrus.Fields{
		"entries":    len(train),
		"marks":      train.Marks(),
		"primary":    primary,
		"substitute": substitute,
	}).Debug("play")

	for idx, pulse := range train {
		if err := ctx.Err(); err != nil {
			return xerrors.Errorf("entry %d of %d: %w", idx, len(train), err)
		}

		freq := substitute
		if pulse > 0 {
			freq = primary
		}

		if err := e.synth.SetFrequency(freq); err != nil {
			return xerrors.Errorf("entry %d: %w", idx, err)
		}

		wait := Wait(pulse, e.calibration)
		e.sleep(wait)

		if e.trace != nil {
			e.trace(Step{Index: idx, Pulse: pulse, Frequency: freq, Wait: wait})
		}
	}

	elapsed := time.Since(start)
	e.log.WithFields(logrus.Fields{
		"nominal": train.Duration(),
		"elapsed": elapsed,
	}).Debug("done")

	return nil
}
