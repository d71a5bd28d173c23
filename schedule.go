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

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bemasher/bosecontrol/bcm"
	"github.com/bemasher/bosecontrol/modulate"
	"github.com/bemasher/bosecontrol/synth"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
)

// Entry is one step of a dry run as written to the output.
type Entry struct {
	Index     int              `json:"index"`
	Pulse     int              `json:"pulse_us"`
	Frequency physic.Frequency `json:"-"`
	Hz        float64          `json:"frequency_hz"`
	Divider   synth.Divider    `json:"divider"`
	Word      uint32           `json:"word"`
	Wait      int64            `json:"wait_us"`
}

func (e Entry) String() string {
	return fmt.Sprintf("{Index:%2d Pulse:%6d Frequency:%s Divider:%s Word:0x%08X Wait:%dus}",
		e.Index, e.Pulse, e.Frequency, e.Divider, e.Word, e.Wait,
	)
}

func (e Entry) Header() []string {
	return []string{"index", "pulse_us", "frequency_hz", "divi", "divf", "word", "wait_us"}
}

func (e Entry) Record() []string {
	return []string{
		strconv.Itoa(e.Index),
		strconv.Itoa(e.Pulse),
		strconv.FormatFloat(e.Hz, 'f', -1, 64),
		strconv.Itoa(int(e.Divider.Integer)),
		strconv.Itoa(int(e.Divider.Fraction)),
		fmt.Sprintf("0x%08X", e.Word),
		strconv.FormatInt(e.Wait, 10),
	}
}

// Schedule records what a dry run would have done to the hardware. Its Trace
// method is installed on the engine in place of real waiting.
type Schedule struct {
	regs  *bcm.Fake
	synth *synth.Synthesizer
	enc   Encoder

	n     int
	total time.Duration
	err   error
}

func NewSchedule(regs *bcm.Fake, s *synth.Synthesizer, enc Encoder) *Schedule {
	return &Schedule{regs: regs, synth: s, enc: enc}
}

func (s *Schedule) Trace(step modulate.Step) {
	s.n++
	s.total += step.Wait

	if s.err != nil {
		return
	}

	entry := Entry{
		Index:     step.Index,
		Pulse:     step.Pulse,
		Frequency: step.Frequency,
		Hz:        float64(step.Frequency) / float64(physic.Hertz),
		Wait:      step.Wait.Microseconds(),
	}

	// The engine only traces after the divider was written.
	entry.Divider, _ = s.synth.Divider(step.Frequency)
	if words := s.regs.WritesTo(bcm.GP0DIV); len(words) > 0 {
		entry.Word = words[len(words)-1]
	}
	// Keep the log to the writes of one entry.
	s.regs.Reset()

	if err := s.enc.Encode(entry); err != nil {
		s.err = errors.Wrapf(err, "entry %d", step.Index)
	}
}

// Len returns the number of entries traced.
func (s *Schedule) Len() int { return s.n }

// Total returns the sum of the waits.
func (s *Schedule) Total() time.Duration { return s.total }

// Err returns the first encoding error.
func (s *Schedule) Err() error { return s.err }
