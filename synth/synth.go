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

// Package synth programs the fractional divider of general purpose clock 0.
//
// The output frequency is the effective reference divided by DIVI + DIVF/4096,
// where the effective reference is the nominal PLL frequency corrected by a
// parts-per-million calibration term. Both divider fields are 12 bits wide.
package synth

import (
	"fmt"
	"math"

	"github.com/bemasher/bosecontrol/bcm"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
	"periph.io/x/conn/v3/physic"
)

const (
	// FieldMax is the largest value either divider field can hold.
	FieldMax = 1<<12 - 1

	// FractionScale is the weight of one integer step in fractional units.
	FractionScale = 1 << 12
)

var (
	ErrInvalidFrequency = xerrors.New("frequency must be positive")
	ErrOutOfRange       = xerrors.New("divider out of range")
)

// Divider is the fixed-point divisor written to the clock manager.
type Divider struct {
	Integer  uint16
	Fraction uint16
}

// Word assembles the divisor register value. Fields are masked to 12 bits;
// NewDivider never produces wider values.
func (d Divider) Word() uint32 {
	return bcm.Password | uint32(d.Integer&FieldMax)<<12 | uint32(d.Fraction&FieldMax)
}

// Value returns the divisor as a real number.
func (d Divider) Value() float64 {
	return float64(d.Integer) + float64(d.Fraction)/FractionScale
}

func (d Divider) String() string {
	return fmt.Sprintf("{DIVI:%d DIVF:%d}", d.Integer, d.Fraction)
}

// Output returns the frequency actually produced by d.
func (d Divider) Output(ref physic.Frequency, ppm float64) physic.Frequency {
	return fromHz(Effective(ref, ppm) / d.Value())
}

func hz(f physic.Frequency) float64 {
	return float64(f) / float64(physic.Hertz)
}

func fromHz(hz float64) physic.Frequency {
	return physic.Frequency(math.Round(hz * float64(physic.Hertz)))
}

// Effective returns the calibrated reference frequency in Hz.
func Effective(ref physic.Frequency, ppm float64) float64 {
	r := hz(ref)
	return r + r*(ppm/1e6)
}

// Ratio returns the real-valued divisor needed to produce target.
func Ratio(ref physic.Frequency, ppm float64, target physic.Frequency) float64 {
	return Effective(ref, ppm) / hz(target)
}

// NewDivider computes the divisor for target. The fractional part is rounded
// to the nearest 1/4096th, carrying into the integer part when it rounds up
// to a whole step. Targets whose integer part falls outside 1..4095 are
// rejected with ErrOutOfRange rather than truncated.
func NewDivider(ref physic.Frequency, ppm float64, target physic.Frequency) (d Divider, err error) {
	if target <= 0 {
		return d, xerrors.Errorf("%s: %w", target, ErrInvalidFrequency)
	}

	ratio := Ratio(ref, ppm, target)

	integer := math.Floor(ratio)
	fraction := math.Round(FractionScale * (ratio - integer))
	if fraction >= FractionScale {
		integer++
		fraction = 0
	}

	if integer < 1 || integer > FieldMax {
		return d, xerrors.Errorf("%s needs divisor %.5f: %w", target, ratio, ErrOutOfRange)
	}

	d.Integer = uint16(integer)
	d.Fraction = uint16(fraction)

	return d, nil
}

// Range returns the lowest and highest frequencies NewDivider accepts for the
// given reference and calibration.
func Range(ref physic.Frequency, ppm float64) (lo, hi physic.Frequency) {
	eff := Effective(ref, ppm) * float64(physic.Hertz)

	lo = physic.Frequency(math.Ceil(eff / (FieldMax + float64(FieldMax)/FractionScale)))
	// One microhertz of margin keeps the ratio at or above 1 after rounding.
	hi = physic.Frequency(math.Floor(eff)) - physic.MicroHertz

	return lo, hi
}

// Synthesizer writes dividers to the GP0DIV register.
type Synthesizer struct {
	r   bcm.Registers
	ref physic.Frequency
	ppm float64
	log logrus.FieldLogger
}

// New returns a Synthesizer for the given reference frequency and ppm
// correction. Both are fixed for the Synthesizer's lifetime.
func New(r bcm.Registers, ref physic.Frequency, ppm float64, log logrus.FieldLogger) *Synthesizer {
	return &Synthesizer{r: r, ref: ref, ppm: ppm, log: log}
}

// Divider computes the divisor for f without touching hardware.
func (s *Synthesizer) Divider(f physic.Frequency) (Divider, error) {
	return NewDivider(s.ref, s.ppm, f)
}

// SetFrequency retunes the clock to f with a single register write. Nothing
// is written if f cannot be represented.
func (s *Synthesizer) SetFrequency(f physic.Frequency) error {
	d, err := s.Divider(f)
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"ppm":       s.ppm,
		"frequency": f,
		"ratio":     d.Value(),
		"achieved":  d.Output(s.ref, s.ppm),
		"divi":      d.Integer,
		"divf":      d.Fraction,
	}).Debug("set frequency")

	s.r.Write(bcm.GP0DIV, d.Word())

	return nil
}
