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
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bemasher/bosecontrol/bcm"
	"github.com/bemasher/bosecontrol/config"
	"github.com/bemasher/bosecontrol/gpclk"
	"github.com/bemasher/bosecontrol/modulate"
	"github.com/bemasher/bosecontrol/monitor"
	"github.com/bemasher/bosecontrol/nec"
	"github.com/bemasher/bosecontrol/synth"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

var log = logrus.New()

// Transmitter owns the clock and the trigger line for one process.
type Transmitter struct {
	cfg *config.Config
	log logrus.FieldLogger

	clock   *gpclk.Controller
	synth   *synth.Synthesizer
	trigger *bcm.Pin
}

func NewTransmitter(cfg *config.Config, r bcm.Registers, log logrus.FieldLogger) (*Transmitter, error) {
	t := &Transmitter{
		cfg:   cfg,
		log:   log,
		clock: gpclk.New(r, log),
		synth: synth.New(r, cfg.Reference.Physic(), cfg.PPM, log),
	}

	if cfg.TriggerPin >= 0 {
		pin, err := bcm.NewPin(r, cfg.TriggerPin)
		if err != nil {
			return nil, errors.Wrap(err, "trigger pin")
		}
		t.trigger = pin
	}

	return t, nil
}

// Transmit plays train once. The trigger line is high and the clock enabled
// for the duration; both are released when it returns, whatever the outcome.
func (t *Transmitter) Transmit(ctx context.Context, train nec.Train, opts ...modulate.Option) error {
	if err := train.Validate(); err != nil {
		return err
	}

	src, err := t.cfg.Source()
	if err != nil {
		return err
	}

	if t.trigger != nil {
		if err := t.trigger.Out(gpio.High); err != nil {
			return errors.Wrapf(err, "raise %s", t.trigger)
		}
		t.log.WithFields(logrus.Fields{
			"pin":   t.trigger,
			"level": t.trigger.Read(),
		}).Debug("trigger raised")
		defer func() {
			if err := t.trigger.Out(gpio.Low); err != nil {
				t.log.WithError(err).Warn("lower trigger")
			}
		}()
	}

	if err := t.clock.Enable(src); err != nil {
		return err
	}

	opts = append([]modulate.Option{
		modulate.WithCalibration(t.cfg.Calibration),
		modulate.WithLogger(t.log),
	}, opts...)

	engine := modulate.New(t.synth, t.clock, opts...)
	return engine.Play(ctx, train, t.cfg.Primary.Physic(), t.cfg.Substitute.Physic())
}

// Registers maps the peripheral block, or returns a fake for a dry run. The
// returned function releases the mapping.
func Registers(cfg *config.Config, dry bool) (bcm.Registers, func(), error) {
	if dry {
		return bcm.NewFake(), func() {}, nil
	}

	base := cfg.PeripheralBase
	if base == 0 {
		var err error
		base, err = bcm.DetectBase(bcm.RangesPath)
		if err != nil {
			log.WithError(err).WithField("base", fmt.Sprintf("0x%08X", uint32(bcm.DefaultBase))).Warn("peripheral base detection failed, using default")
			base = bcm.DefaultBase
		}
	}

	mem, err := bcm.Open(base, bcm.Size)
	if err != nil {
		return nil, nil, err
	}
	log.WithField("base", fmt.Sprintf("0x%08X", mem.Base())).Debug("peripherals mapped")

	return mem, func() {
		if err := mem.Close(); err != nil {
			log.WithError(err).Warn("unmap peripherals")
		}
	}, nil
}

// startMonitor connects to the rtl_tcp server and measures until the returned
// function is called, which logs and returns the summary.
func startMonitor(ctx context.Context, cfg *config.Config) (func() monitor.Summary, error) {
	center := cfg.Primary.Physic() - cfg.Monitor.Offset.Physic()
	m, err := monitor.Dial(cfg.Monitor.Server, center, cfg.Monitor.SampleRate.Physic(), log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan monitor.Summary, 1)
	go func() {
		summary, err := m.Run(ctx)
		if err != nil {
			log.WithError(err).Warn("monitor")
		}
		done <- summary
	}()

	return func() monitor.Summary {
		cancel()
		summary := <-done
		m.Close()

		log.WithFields(logrus.Fields{
			"blocks": summary.Blocks,
			"active": summary.Active,
			"min":    fmt.Sprintf("%.2f", summary.Min),
			"max":    fmt.Sprintf("%.2f", summary.Max),
			"mean":   fmt.Sprintf("%.2f", summary.Mean),
		}).Info("monitor summary")

		return summary
	}, nil
}

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
	})
}

var (
	buildTag   = "dev"     // v#.#.#
	buildDate  = "unknown" // date -u '+%Y-%m-%d'
	commitHash = "unknown" // git rev-parse HEAD
)

func run() int {
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	RegisterFlags()
	EnvOverride(flag.CommandLine, log)
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		return 2
	}

	if *version {
		fmt.Println("Build Tag: ", buildTag)
		fmt.Println("Build Date:", buildDate)
		fmt.Println("Commit:    ", commitHash)
		return 0
	}

	cfg, err := HandleFlags()
	if err != nil {
		log.WithError(err).Error("configuration")
		return 1
	}

	regs, unmap, err := Registers(cfg, *dryRun)
	if err != nil {
		log.WithError(err).Error("map peripherals")
		return 1
	}
	defer unmap()

	tx, err := NewTransmitter(cfg, regs, log)
	if err != nil {
		log.WithError(err).Error("transmitter")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		select {
		case s := <-sig:
			log.WithField("signal", s).Warn("interrupted")
			cancel()
		case <-ctx.Done():
		}
	}()

	var opts []modulate.Option
	var sched *Schedule
	if *dryRun {
		sched = NewSchedule(regs.(*bcm.Fake), tx.synth, encoder)
		opts = append(opts, modulate.WithSleep(func(time.Duration) {}), modulate.WithTrace(sched.Trace))
	}

	if cfg.Monitor.Server != "" && !*dryRun {
		stop, err := startMonitor(ctx, cfg)
		if err != nil {
			log.WithError(err).Warn("monitor unavailable")
		} else {
			defer stop()
		}
	}

	log.WithFields(logrus.Fields{
		"primary":    cfg.Primary,
		"substitute": cfg.Substitute,
		"ppm":        cfg.PPM,
		"source":     cfg.ClockSource,
		"entries":    len(nec.Bose1),
	}).Info("transmitting")

	if err := tx.Transmit(ctx, nec.Bose1, opts...); err != nil {
		log.WithError(err).Error("transmit")
		return 1
	}

	if sched != nil {
		if err := sched.Err(); err != nil {
			log.WithError(err).Error("encode schedule")
			return 1
		}
		log.WithFields(logrus.Fields{
			"entries":   sched.Len(),
			"nominal":   nec.Bose1.Duration(),
			"scheduled": sched.Total(),
		}).Info("dry run complete")
	}

	return 0
}

func main() {
	os.Exit(run())
}
