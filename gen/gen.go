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

// Package gen synthesizes rtl_tcp style sample streams for testing the carrier
// monitor without a receiver.
package gen

import (
	"math"

	"github.com/bemasher/bosecontrol/nec"
)

// CmplxOscillatorU8 returns interleaved unsigned 8-bit I/Q samples of a
// complex tone at freq, as delivered by rtl_tcp.
func CmplxOscillatorU8(samples int, freq float64, samplerate float64) []uint8 {
	signal := make([]uint8, samples<<1)

	for idx := 0; idx < samples<<1; idx += 2 {
		s, c := math.Sincos(2 * math.Pi * float64(idx>>1) * freq / samplerate)
		signal[idx] = uint8(s*127.5 + 127.5)
		signal[idx+1] = uint8(c*127.5 + 127.5)
	}

	return signal
}

// Silence returns samples with no signal, sitting at the converter's
// midpoint.
func Silence(samples int) []uint8 {
	signal := make([]uint8, samples<<1)
	for idx := range signal {
		signal[idx] = 127
	}
	return signal
}

// Samples returns the number of samples spanning one pulse entry.
func Samples(pulse int, samplerate float64) int {
	return int(math.Round(nec.Abs(pulse).Seconds() * samplerate))
}

// Keyed renders a pulse train as seen by a receiver tuned near the primary
// carrier: a tone at offset during marks and silence during spaces, when the
// transmitter has moved to the substitute frequency.
func Keyed(train nec.Train, offset, samplerate float64) []uint8 {
	var signal []uint8
	for _, pulse := range train {
		n := Samples(pulse, samplerate)
		if pulse > 0 {
			signal = append(signal, CmplxOscillatorU8(n, offset, samplerate)...)
		} else {
			signal = append(signal, Silence(n)...)
		}
	}
	return signal
}
