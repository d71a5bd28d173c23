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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bemasher/bosecontrol/config"
	"github.com/bemasher/bosecontrol/csv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EnvPrefix is prepended to upper-cased flag names to form the environment
// variables that override them.
const EnvPrefix = "BOSECONTROL_"

var frequency config.Frequency

var ppm = flag.Float64("y", 0, "calibration offset of the reference clock in ppm")

var configFilename = flag.String("config", "", "yaml configuration file, defaults are used if empty")

var verbose = flag.Bool("v", false, "log every register write and timing detail")

var dryRun = flag.Bool("dryrun", false, "print the register schedule instead of transmitting")

var encoder Encoder
var format = flag.String("format", "plain", "dry run output format: plain, csv or json")

var monitorAddr = flag.String("monitor", "", "rtl_tcp address to measure the transmission with, ex. 127.0.0.1:1234")

var version = flag.Bool("version", false, "display build date and commit hash")

func RegisterFlags() {
	flag.Var(&frequency, "f", "carrier frequency in Hz, ex. 27.145M (the protocol's carriers take precedence)")

	transmitFlags := map[string]bool{
		"f":      true,
		"y":      true,
		"config": true,
	}

	printDefaults := func(validFlags map[string]bool, inclusion bool) {
		flag.CommandLine.VisitAll(func(f *flag.Flag) {
			if validFlags[f.Name] != inclusion {
				return
			}

			format := "  -%s=%s: %s\n"
			fmt.Fprintf(flag.CommandLine.Output(), format, f.Name, f.Value, f.Usage)
		})
	}

	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		printDefaults(transmitFlags, true)

		fmt.Fprintln(out)
		fmt.Fprintln(out, "output:")
		printDefaults(transmitFlags, false)
	}
}

// EnvOverride sets each flag in fs from its environment variable, if present.
func EnvOverride(fs *flag.FlagSet, log logrus.FieldLogger) {
	fs.VisitAll(func(f *flag.Flag) {
		envName := EnvPrefix + strings.ToUpper(f.Name)
		flagValue := os.Getenv(envName)
		if flagValue == "" {
			return
		}

		entry := log.WithFields(logrus.Fields{
			"env":   envName,
			"flag":  f.Name,
			"value": flagValue,
		})
		if err := fs.Set(f.Name, flagValue); err != nil {
			entry.WithError(err).Warn("environment variable failed to override flag")
		} else {
			entry.Info("environment variable overrides flag")
		}
	})
}

// HandleFlags loads the configuration and applies the flags given on top of
// it.
func HandleFlags() (*config.Config, error) {
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Default()
	if *configFilename != "" {
		var err error
		cfg, err = config.Load(*configFilename)
		if err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "f":
			log.WithFields(logrus.Fields{
				"requested": frequency,
				"primary":   cfg.Primary,
			}).Warn("carrier frequency is fixed by the protocol, -f ignored")
		case "y":
			cfg.PPM = *ppm
		case "monitor":
			cfg.Monitor.Server = *monitorAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var err error
	encoder, err = NewEncoder(*format, os.Stdout)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// JSON and CSV encoders both implement this interface so we can simplify
// schedule output formatting.
type Encoder interface {
	Encode(interface{}) error
}

// NewEncoder returns the encoder for the named format writing to w.
func NewEncoder(format string, w io.Writer) (Encoder, error) {
	switch strings.ToLower(format) {
	case "plain":
		return PlainEncoder{w}, nil
	case "csv":
		return csv.NewEncoder(w), nil
	case "json":
		return json.NewEncoder(w), nil
	}
	return nil, errors.Errorf("unknown output format: %q", format)
}

type PlainEncoder struct {
	w io.Writer
}

func (pe PlainEncoder) Encode(v interface{}) (err error) {
	_, err = fmt.Fprintln(pe.w, v)
	return
}
