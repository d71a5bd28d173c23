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

/*
BOSECONTROL sends remote-control codes to a Bose Wave radio over RF from the
GPCLK0 pin (GPIO4, header pin 7) of a Raspberry Pi. A short wire on the pin is
enough of an antenna for a receiver across the room.

The clock is tuned to the primary carrier for every mark of the pulse train and
to a substitute frequency, far outside the receiver's passband, for every
space. Switching the clock off and on again takes too long to keep NEC timing,
so spaces are sent as a different frequency rather than silence.

Must run as root; the clock manager and GPIO registers are reached through
/dev/mem.

Command-line Flags:

	-config=""

Reads a yaml configuration file. Keys left out keep their defaults:

	peripheral_base: 0         # 0 reads /proc/device-tree/soc/ranges
	reference: 500M            # PLLD on BCM2835
	ppm: 0
	clock_source: plld
	primary: 27.145M
	substitute: 49.83M
	calibration: 100us         # subtracted from every wait
	trigger_pin: 17            # raised while transmitting, -1 disables
	monitor:
	  server: ""
	  sample_rate: 2.4M
	  offset: 250k

	-f=27.145M

Accepted for compatibility. The carriers are fixed by the protocol and this
value is only logged.

	-y=0

Calibration offset of the reference clock in parts per million. A reference
that runs fast needs a positive value.

	-v=false

Logs every divider write and the timing of each transmission.

	-dryrun=false

Computes the complete register schedule without touching hardware and writes
one entry per pulse to stdout:

	{Index: 0 Pulse:  9024 Frequency:27.145MHz Divider:{DIVI:18 DIVF:1719} Word:0x5A0126B7 Wait:8924us}

	-format="plain"

Dry run output format: plain, csv or json. Csv output begins with a header
row; json output is one object per line.

	-monitor=""

Connects to an rtl_tcp server, tunes it just below the primary carrier and
measures the received level while transmitting. A summary is logged when the
transmission ends.

	-version=false

Prints the build tag, date and commit and exits.

Every flag may also be set from the environment by prefixing the upper-cased
name with BOSECONTROL_, for example BOSECONTROL_Y=-12.5.

Exit status is 0 on success, 1 when the registers cannot be mapped, the
configuration is invalid or transmission fails, and 2 for usage errors.
*/
package main
