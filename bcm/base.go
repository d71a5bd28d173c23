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
	"encoding/binary"
	"io/ioutil"

	"github.com/pkg/errors"
)

// RangesPath describes the SoC's bus-to-physical address ranges.
var RangesPath = "/proc/device-tree/soc/ranges"

// DetectBase reads the peripheral base address from a device-tree ranges
// file. The first cell is the bus address (0x7E000000), followed by the
// physical address: one cell on the Pi 1 through 3, two cells on the Pi 4
// where the first is zero.
func DetectBase(path string) (uint32, error) {
	ranges, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(err, "read soc ranges")
	}

	if len(ranges) < 8 {
		return 0, errors.Errorf("soc ranges too short: %d bytes", len(ranges))
	}

	base := binary.BigEndian.Uint32(ranges[4:8])
	if base == 0 {
		if len(ranges) < 12 {
			return 0, errors.Errorf("soc ranges too short: %d bytes", len(ranges))
		}
		base = binary.BigEndian.Uint32(ranges[8:12])
	}

	if base == 0 {
		return 0, errors.New("soc ranges report a zero peripheral base")
	}

	return base, nil
}
