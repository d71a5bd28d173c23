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

//go:build !linux

package bcm

import "golang.org/x/xerrors"

// Mem is unavailable on this platform; Open always fails.
type Mem struct{}

func Open(base uint32, size int) (*Mem, error) {
	return nil, xerrors.Errorf("open 0x%08X: %w", base, ErrUnsupported)
}

func (m *Mem) Read(offset uint32) uint32  { return 0 }
func (m *Mem) Write(offset, value uint32) {}
func (m *Mem) Base() uint32               { return 0 }
func (m *Mem) Close() error               { return nil }
