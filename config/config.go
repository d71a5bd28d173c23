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

// Package config holds transmitter settings loaded from YAML.
//
// Frequencies accept SI suffixes ("27.145M", "500M") both in the file and on
// the command line.
package config

import (
	"io/ioutil"
	"math"
	"time"

	"github.com/bemasher/bosecontrol/gpclk"
	"github.com/bemasher/bosecontrol/synth"
	"github.com/bemasher/rtltcp/si"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Frequency is a frequency in Hz. It implements flag.Value.
type Frequency struct {
	si.ScientificNotation
}

func Hz(v float64) Frequency {
	return Frequency{si.ScientificNotation(v)}
}

func (f *Frequency) UnmarshalYAML(node *yaml.Node) error {
	if err := f.Set(node.Value); err != nil {
		return errors.Wrapf(err, "line %d: frequency %q", node.Line, node.Value)
	}
	return nil
}

func (f Frequency) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// Physic converts to periph's fixed-point representation, rounded to the
// nearest microhertz.
func (f Frequency) Physic() physic.Frequency {
	return physic.Frequency(math.Round(float64(f.ScientificNotation) * float64(physic.Hertz)))
}

// Config is the complete transmitter configuration.
type Config struct {
	// Physical address of the peripheral block, 0 to read it from the device
	// tree.
	PeripheralBase uint32 `yaml:"peripheral_base"`

	Reference   Frequency `yaml:"reference"`
	PPM         float64   `yaml:"ppm"`
	ClockSource string    `yaml:"clock_source"`

	Primary     Frequency     `yaml:"primary"`
	Substitute  Frequency     `yaml:"substitute"`
	Calibration time.Duration `yaml:"calibration"`

	// BCM number of the line raised while transmitting, negative to leave it
	// alone.
	TriggerPin int `yaml:"trigger_pin"`

	Monitor MonitorConfig `yaml:"monitor"`
}

// MonitorConfig configures the optional rtl_tcp carrier monitor.
type MonitorConfig struct {
	Server     string    `yaml:"server"`
	SampleRate Frequency `yaml:"sample_rate"`
	// Offset is subtracted from the primary frequency when tuning so the
	// carrier does not land on the receiver's DC spike.
	Offset Frequency `yaml:"offset"`
}

// Default returns the settings for a BCM2835 with PLLD at 500MHz and the
// Bose carrier pair.
func Default() *Config {
	return &Config{
		PeripheralBase: 0,
		Reference:      Hz(500e6),
		PPM:            0,
		ClockSource:    "plld",
		Primary:        Hz(27.145e6),
		Substitute:     Hz(49.83e6),
		Calibration:    100 * time.Microsecond,
		TriggerPin:     17,
		Monitor: MonitorConfig{
			SampleRate: Hz(2.4e6),
			Offset:     Hz(250e3),
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	applyDefaults(c)

	return c, nil
}

func applyDefaults(c *Config) {
	d := Default()
	if c.Reference.ScientificNotation == 0 {
		c.Reference = d.Reference
	}
	if c.ClockSource == "" {
		c.ClockSource = d.ClockSource
	}
	if c.Primary.ScientificNotation == 0 {
		c.Primary = d.Primary
	}
	if c.Substitute.ScientificNotation == 0 {
		c.Substitute = d.Substitute
	}
	if c.Monitor.SampleRate.ScientificNotation == 0 {
		c.Monitor.SampleRate = d.Monitor.SampleRate
	}
}

// Source parses ClockSource.
func (c *Config) Source() (gpclk.Source, error) {
	return gpclk.ParseSource(c.ClockSource)
}

// Validate checks that the clock source exists and that both carriers can be
// synthesized from the calibrated reference.
func (c *Config) Validate() error {
	if c.Reference.Physic() <= 0 {
		return errors.Errorf("reference frequency must be positive: %s", c.Reference)
	}

	src, err := c.Source()
	if err != nil {
		return err
	}
	if src == gpclk.GND {
		return errors.New("clock source gnd produces no output")
	}

	if c.Calibration < 0 {
		return errors.Errorf("calibration must not be negative: %s", c.Calibration)
	}

	lo, hi := synth.Range(c.Reference.Physic(), c.PPM)
	for _, f := range []struct {
		name string
		freq Frequency
	}{
		{"primary", c.Primary},
		{"substitute", c.Substitute},
	} {
		if p := f.freq.Physic(); p < lo || p > hi {
			return errors.Errorf("%s frequency %s outside %s to %s", f.name, p, lo, hi)
		}
	}

	if c.Primary.Physic() == c.Substitute.Physic() {
		return errors.New("primary and substitute frequencies must differ")
	}

	if c.Monitor.Server != "" && c.Monitor.SampleRate.Physic() <= 0 {
		return errors.Errorf("monitor sample rate must be positive: %s", c.Monitor.SampleRate)
	}

	return nil
}
