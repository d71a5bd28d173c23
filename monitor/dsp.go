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

package monitor

import "math"

// MagLUT holds the squared distance of each 8-bit sample value from the
// converter's midpoint.
type MagLUT []float64

func NewMagLUT() (lut MagLUT) {
	lut = make([]float64, 0x100)
	for idx := range lut {
		lut[idx] = 127.4 - float64(idx)
		lut[idx] *= lut[idx]
	}
	return
}

// Level returns the mean magnitude of a block of interleaved I/Q samples.
func (lut MagLUT) Level(input []byte) float64 {
	n := len(input) >> 1
	if n == 0 {
		return 0
	}

	var sum float64
	for idx := 0; idx < n; idx++ {
		lutIdx := idx << 1
		sum += math.Sqrt(lut[input[lutIdx]] + lut[input[lutIdx+1]])
	}

	return sum / float64(n)
}
