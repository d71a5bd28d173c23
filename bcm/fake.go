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

import "fmt"

// Write is one recorded register store.
type Write struct {
	Offset uint32
	Value  uint32
}

func (w Write) String() string {
	return fmt.Sprintf("{Offset:0x%06X Value:0x%08X}", w.Offset, w.Value)
}

// Fake is an in-memory Registers. It keeps the last value written to each
// offset and a log of every write in order.
type Fake struct {
	regs   map[uint32]uint32
	writes []Write
}

func NewFake() *Fake {
	return &Fake{regs: make(map[uint32]uint32)}
}

func (f *Fake) Read(offset uint32) uint32 {
	return f.regs[offset]
}

func (f *Fake) Write(offset, value uint32) {
	f.regs[offset] = value
	f.writes = append(f.writes, Write{offset, value})
}

// Writes returns a copy of the write log.
func (f *Fake) Writes() []Write {
	w := make([]Write, len(f.writes))
	copy(w, f.writes)
	return w
}

// WritesTo returns the values written to a single offset, oldest first.
func (f *Fake) WritesTo(offset uint32) (values []uint32) {
	for _, w := range f.writes {
		if w.Offset == offset {
			values = append(values, w.Value)
		}
	}
	return values
}

// Reset clears the write log but keeps register contents.
func (f *Fake) Reset() {
	f.writes = f.writes[:0]
}
