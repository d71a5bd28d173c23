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

// Package gpclk controls general purpose clock 0, the clock manager output
// routed to GPIO4 (header pin 7).
package gpclk

import (
	"fmt"
	"strings"

	"github.com/bemasher/bosecontrol/bcm"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Pin is the GPIO line GPCLK0 is routed to with ALT0.
const Pin = 4

// Source selects the oscillator feeding the clock generator.
type Source uint32

const (
	GND Source = iota
	OSC
	TestDebug0
	TestDebug1
	PLLA
	PLLC
	PLLD
	HDMI
)

var sourceNames = [...]string{"gnd", "osc", "testdebug0", "testdebug1", "plla", "pllc", "plld", "hdmi"}

// Valid reports whether s names an oscillator. Values 8-15 fit the field but
// select nothing on this hardware.
func (s Source) Valid() bool {
	return s <= HDMI
}

func (s Source) String() string {
	if s.Valid() {
		return sourceNames[s]
	}
	return fmt.Sprintf("Source(%d)", uint32(s))
}

var ErrInvalidSource = xerrors.New("invalid clock source")

// ParseSource accepts a source name, case-insensitive.
func ParseSource(name string) (Source, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for idx, n := range sourceNames {
		if n == name {
			return Source(idx), nil
		}
	}
	return 0, xerrors.Errorf("%q: %w", name, ErrInvalidSource)
}

// Control register fields.
const (
	enab     = 1 << 4
	kill     = 1 << 5
	busy     = 1 << 7
	flip     = 1 << 8
	mashMask = 3 << 9

	// MASH selects the noise shaping filter order.
	MASH = 1
)

// ControlWord assembles the control register value selecting src: enabled,
// not killed, not inverted, MASH 1.
func ControlWord(src Source) uint32 {
	return bcm.Password | MASH<<9&mashMask | enab | uint32(src)&0xF
}

// Controller drives the clock output pin. It tracks the last source written.
type Controller struct {
	r   bcm.Registers
	log logrus.FieldLogger

	src     Source
	enabled bool
}

func New(r bcm.Registers, log logrus.FieldLogger) *Controller {
	return &Controller{r: r, log: log}
}

// Enable routes GPCLK0 to its pin and starts it from src. The control word is
// written in a single store.
func (c *Controller) Enable(src Source) error {
	if !src.Valid() {
		return xerrors.Errorf("enable %s: %w", src, ErrInvalidSource)
	}

	if err := bcm.SetFunction(c.r, Pin, bcm.Alt0); err != nil {
		return err
	}

	word := ControlWord(src)
	c.r.Write(bcm.GP0CTL, word)

	c.src = src
	c.enabled = src != GND

	c.log.WithFields(logrus.Fields{
		"source": src,
		"word":   fmt.Sprintf("0x%08X", word),
	}).Debug("clock output")

	return nil
}

// Disable selects the grounded source. There is no faster way to stop the
// output on this hardware.
func (c *Controller) Disable() {
	// GND is always valid.
	_ = c.Enable(GND)
}

// Source returns the last selected source.
func (c *Controller) Source() Source {
	return c.src
}

// Enabled reports whether a non-grounded source is selected.
func (c *Controller) Enabled() bool {
	return c.enabled
}

