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

//go:build linux

package bcm

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MemPath is the character device exposing physical memory.
var MemPath = "/dev/mem"

// Mem is a Registers backed by a shared mapping of physical memory.
type Mem struct {
	base uint32
	mem  []byte
}

// Open maps size bytes of physical memory starting at base. Requires root or
// CAP_SYS_RAWIO.
func Open(base uint32, size int) (*Mem, error) {
	f, err := os.OpenFile(MemPath, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s, need to run as root", MemPath)
	}
	// The mapping outlives the descriptor.
	defer f.Close()

	mem, err := unix.Mmap(int(f.Fd()), int64(base), size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap 0x%08X+0x%X", base, size)
	}

	return &Mem{base: base, mem: mem}, nil
}

func (m *Mem) word(offset uint32) *uint32 {
	if offset&3 != 0 || int(offset)+4 > len(m.mem) {
		panic(fmt.Errorf("register offset 0x%X outside 0x%X byte window", offset, len(m.mem)))
	}
	return (*uint32)(unsafe.Pointer(&m.mem[offset]))
}

func (m *Mem) Read(offset uint32) uint32 {
	return atomic.LoadUint32(m.word(offset))
}

func (m *Mem) Write(offset, value uint32) {
	atomic.StoreUint32(m.word(offset), value)
}

// Base returns the physical address the window starts at.
func (m *Mem) Base() uint32 {
	return m.base
}

// Close unmaps the window. The Mem must not be used afterwards.
func (m *Mem) Close() error {
	if m.mem == nil {
		return nil
	}
	err := unix.Munmap(m.mem)
	m.mem = nil
	return errors.Wrap(err, "munmap")
}
