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

// Package nec holds captured NEC2 remote-control pulse trains and an encoder
// that produces them.
//
// A pulse train is a sequence of signed durations in microseconds. Positive
// entries are marks (carrier present), negative entries are spaces.
package nec

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

// NEC2 timing in microseconds.
const (
	LeaderMark  = 9024
	LeaderSpace = 4512
	BitMark     = 564
	ZeroSpace   = 564
	OneSpace    = 1692
	Gap         = 38628
)

// Train is an ordered sequence of signed microsecond durations.
type Train []int

var (
	ErrEmptyTrain = xerrors.New("empty pulse train")
	ErrZeroPulse  = xerrors.New("zero length pulse")
)

// Validate rejects empty trains and zero entries, which carry no polarity.
func (t Train) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTrain
	}
	for idx, p := range t {
		if p == 0 {
			return xerrors.Errorf("entry %d: %w", idx, ErrZeroPulse)
		}
	}
	return nil
}

// Duration returns the total length of the train.
func (t Train) Duration() (d time.Duration) {
	for _, p := range t {
		d += Abs(p)
	}
	return d
}

// Marks returns the number of positive entries.
func (t Train) Marks() (n int) {
	for _, p := range t {
		if p > 0 {
			n++
		}
	}
	return n
}

func (t Train) String() string {
	s := make([]string, len(t))
	for idx, p := range t {
		s[idx] = strconv.Itoa(p)
	}
	return "[" + strings.Join(s, ",") + "]"
}

// Abs returns the magnitude of a single entry as a duration.
func Abs(p int) time.Duration {
	if p < 0 {
		p = -p
	}
	return time.Duration(p) * time.Microsecond
}

// Encode builds an NEC2 frame: leader, device, subdevice, command and the
// inverted command, each sent least significant bit first, a stop mark and the
// inter-frame gap.
func Encode(device, subdevice, command uint8) Train {
	t := make(Train, 0, 4+32*2)
	t = append(t, LeaderMark, -LeaderSpace)

	for _, b := range [...]uint8{device, subdevice, command, ^command} {
		for bit := uint(0); bit < 8; bit++ {
			if (b>>bit)&1 == 1 {
				t = append(t, BitMark, -OneSpace)
			} else {
				t = append(t, BitMark, -ZeroSpace)
			}
		}
	}

	return append(t, BitMark, -Gap)
}
