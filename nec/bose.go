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

package nec

// Codes captured from a Bose remote use NEC2 device 186, subdevice 85.
const (
	BoseDevice    = 186
	BoseSubdevice = 85
)

// Bose1 is the captured frame for command 1, the code the transmitter sends.
var Bose1 = Train{
	9024, -4512, 564, -564, 564, -1692, 564, -564,
	564, -1692, 564, -1692, 564, -1692, 564, -564,
	564, -1692, 564, -1692, 564, -564, 564, -1692,
	564, -564, 564, -1692, 564, -564, 564, -1692,
	564, -564, 564, -1692, 564, -564, 564, -564,
	564, -564, 564, -564, 564, -564, 564, -564,
	564, -564, 564, -564, 564, -1692, 564, -1692,
	564, -1692, 564, -1692, 564, -1692, 564, -1692,
	564, -1692, 564, -38628,
}

// Captured lists the command numbers recorded from the same remote, in
// capture order. Encode(BoseDevice, BoseSubdevice, c) reproduces each frame.
var Captured = []uint8{1, 2, 3, 6, 10, 11, 13, 14, 15, 24, 25, 26, 75, 76, 223, 78, 79, 82, 83, 85, 86, 92, 93}
