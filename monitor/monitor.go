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

// Package monitor listens to the transmitter with an rtl-sdr through rtl_tcp
// and reports how the received level tracks the pulse train.
package monitor

import (
	"context"
	"fmt"
	"io"
	"math"
	"net"
	"time"

	"github.com/bemasher/rtltcp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
)

const (
	// BlockSize is the number of bytes measured at once, 1024 I/Q pairs.
	// Short blocks keep a single 564µs mark visible at typical sample rates.
	BlockSize = 2048

	// ReadTimeout bounds each read so cancellation is noticed promptly.
	ReadTimeout = 100 * time.Millisecond
)

// Summary describes the levels seen over a run.
type Summary struct {
	Blocks int
	Active int // blocks above the midpoint of Min and Max

	Min, Max, Mean float64
}

func (s Summary) String() string {
	return fmt.Sprintf("{Blocks:%d Active:%d Min:%.2f Max:%.2f Mean:%.2f}", s.Blocks, s.Active, s.Min, s.Max, s.Mean)
}

// Summarize reduces per-block levels to a Summary.
func Summarize(levels []float64) (s Summary) {
	s.Blocks = len(levels)
	if s.Blocks == 0 {
		return s
	}

	s.Min, s.Max = math.Inf(1), math.Inf(-1)

	var sum float64
	for _, l := range levels {
		s.Min = math.Min(s.Min, l)
		s.Max = math.Max(s.Max, l)
		sum += l
	}
	s.Mean = sum / float64(s.Blocks)

	mid := (s.Min + s.Max) / 2
	for _, l := range levels {
		if l > mid {
			s.Active++
		}
	}

	return s
}

// Monitor is a connection to an rtl_tcp server tuned near the carrier.
type Monitor struct {
	rtltcp.SDR

	lut   MagLUT
	block []byte
	log   logrus.FieldLogger
}

func hz(f physic.Frequency) uint32 {
	return uint32(f / physic.Hertz)
}

// Dial connects to the rtl_tcp server at addr and tunes it to center with the
// given sample rate and automatic gain.
func Dial(addr string, center, sampleRate physic.Frequency, log logrus.FieldLogger) (*Monitor, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "resolve rtl_tcp address")
	}

	m := &Monitor{
		lut:   NewMagLUT(),
		block: make([]byte, BlockSize),
		log:   log,
	}

	if err := m.Connect(tcpAddr); err != nil {
		return nil, errors.Wrap(err, "connect rtl_tcp")
	}

	log.WithFields(logrus.Fields{
		"server": addr,
		"tuner":  m.Info.Tuner,
		"gains":  m.Info.GainCount,
	}).Debug("monitor connected")

	err = m.SetSampleRate(hz(sampleRate))
	if err == nil {
		err = m.SetCenterFreq(hz(center))
	}
	if err == nil {
		err = m.SetGainMode(true)
	}
	if err != nil {
		m.Close()
		return nil, errors.Wrap(err, "configure rtl_tcp")
	}

	log.WithFields(logrus.Fields{
		"center":     center,
		"samplerate": sampleRate,
	}).Debug("monitor tuned")

	return m, nil
}

// Run measures blocks until ctx is cancelled or the server closes the stream.
func (m *Monitor) Run(ctx context.Context) (Summary, error) {
	var levels []float64

	for {
		select {
		case <-ctx.Done():
			return Summarize(levels), nil
		default:
		}

		if err := m.SetReadDeadline(time.Now().Add(ReadTimeout)); err != nil {
			return Summarize(levels), errors.Wrap(err, "set read deadline")
		}

		// A timeout may consume a partial block and shift the I/Q pairing by
		// a byte. Block levels tolerate that.
		_, err := io.ReadFull(m, m.block)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			m.log.WithField("blocks", len(levels)).Debug("monitor stream ended")
			return Summarize(levels), nil
		}
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return Summarize(levels), nil
			}
			return Summarize(levels), errors.Wrap(err, "read samples")
		}

		levels = append(levels, m.lut.Level(m.block))
	}
}
