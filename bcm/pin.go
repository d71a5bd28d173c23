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

package bcm

import (
	"fmt"

	"golang.org/x/xerrors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

var _ gpio.PinOut = (*Pin)(nil)

// Pin is a single GPIO line driven through the register window.
type Pin struct {
	r      Registers
	number int
}

// NewPin returns the GPIO line with the given BCM number. The line's
// function is left untouched until Out is called.
func NewPin(r Registers, number int) (*Pin, error) {
	if number < 0 || number >= Pins {
		return nil, xerrors.Errorf("gpio %d: %w", number, ErrInvalidPin)
	}
	return &Pin{r: r, number: number}, nil
}

func (p *Pin) String() string { return p.Name() }
func (p *Pin) Name() string   { return fmt.Sprintf("GPIO%d", p.number) }
func (p *Pin) Number() int    { return p.number }

// Halt is a no-op, nothing runs in the background.
func (p *Pin) Halt() error { return nil }

// Function returns the name of the line's current function select.
func (p *Pin) Function() string {
	fn, err := GetFunction(p.r, p.number)
	if err != nil {
		return err.Error()
	}
	return fn.String()
}

// Out switches the line to output if needed and drives it to l.
func (p *Pin) Out(l gpio.Level) error {
	fn, err := GetFunction(p.r, p.number)
	if err != nil {
		return err
	}
	if fn != Output {
		if err := SetFunction(p.r, p.number, Output); err != nil {
			return err
		}
	}

	bank := uint32(p.number/32) * 4
	bit := uint32(1) << uint(p.number%32)
	if l == gpio.High {
		p.r.Write(GPSET0+bank, bit)
	} else {
		p.r.Write(GPCLR0+bank, bit)
	}

	return nil
}

// Read samples the line's level.
func (p *Pin) Read() gpio.Level {
	bank := uint32(p.number/32) * 4
	return gpio.Level(p.r.Read(GPLEV0+bank)&(1<<uint(p.number%32)) != 0)
}

// PWM is not available on this line; GPCLK output is handled by the gpclk
// package.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return xerrors.Errorf("%s: pwm not supported", p)
}
