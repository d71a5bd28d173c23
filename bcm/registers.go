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

// Package bcm provides access to the BCM283x peripheral registers used to
// drive a general-purpose clock onto a GPIO pin.
package bcm

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Register offsets relative to the peripheral base.
const (
	GP0CTL = 0x101070 // clock manager, general purpose clock 0 control
	GP0DIV = 0x101074 // clock manager, general purpose clock 0 divisor

	GPFSEL0 = 0x200000
	GPSET0  = 0x20001c
	GPCLR0  = 0x200028
	GPLEV0  = 0x200034
)

const (
	// Password must be present in the top byte of every clock manager write
	// or the hardware ignores it.
	Password = 0x5a << 24

	// DefaultBase is the peripheral base of the BCM2835 (Pi 1, Zero).
	DefaultBase = 0x20000000

	// Size of the mapped window, large enough to cover the clock manager and
	// the GPIO block.
	Size = 0x01000000
)

// Registers reads and writes 32-bit registers at byte offsets from the
// peripheral base. Writes are single stores; implementations never tear a
// value across two accesses.
type Registers interface {
	Read(offset uint32) uint32
	Write(offset, value uint32)
}

// Function is a GPIO function select value as written to GPFSELn.
type Function uint32

const (
	Input  Function = 0
	Output Function = 1
	Alt0   Function = 4
	Alt1   Function = 5
	Alt2   Function = 6
	Alt3   Function = 7
	Alt4   Function = 3
	Alt5   Function = 2
)

var functionNames = map[Function]string{
	Input:  "In",
	Output: "Out",
	Alt0:   "ALT0",
	Alt1:   "ALT1",
	Alt2:   "ALT2",
	Alt3:   "ALT3",
	Alt4:   "ALT4",
	Alt5:   "ALT5",
}

func (fn Function) String() string {
	if name, ok := functionNames[fn]; ok {
		return name
	}
	return fmt.Sprintf("Function(%d)", uint32(fn))
}

// Pins is the number of GPIO lines addressable through GPFSEL0..GPFSEL5.
const Pins = 54

var (
	ErrInvalidPin  = xerrors.New("invalid gpio pin")
	ErrUnsupported = xerrors.New("physical memory access is only supported on linux")
)

// SetFunction selects fn for the given GPIO line. Each GPFSELn register holds
// ten 3-bit fields; the other nine are preserved.
func SetFunction(r Registers, pin int, fn Function) error {
	if pin < 0 || pin >= Pins {
		return xerrors.Errorf("gpio %d: %w", pin, ErrInvalidPin)
	}

	offset := uint32(GPFSEL0 + (pin/10)*4)
	shift := uint(pin%10) * 3

	word := r.Read(offset)
	word &^= 7 << shift
	word |= uint32(fn&7) << shift
	r.Write(offset, word)

	return nil
}

// GetFunction reports the currently selected function of a GPIO line.
func GetFunction(r Registers, pin int) (Function, error) {
	if pin < 0 || pin >= Pins {
		return 0, xerrors.Errorf("gpio %d: %w", pin, ErrInvalidPin)
	}

	offset := uint32(GPFSEL0 + (pin/10)*4)
	shift := uint(pin%10) * 3

	return Function((r.Read(offset) >> shift) & 7), nil
}
