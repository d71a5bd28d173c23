package gpclk

import (
	"testing"

	"github.com/bemasher/bosecontrol/bcm"
	"github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/xerrors"
)

func TestControlWord(t *testing.T) {
	cases := []struct {
		src  Source
		word uint32
	}{
		{GND, 0x5A000210},
		{OSC, 0x5A000211},
		{PLLD, 0x5A000216},
		{HDMI, 0x5A000217},
	}

	for _, c := range cases {
		if got := ControlWord(c.src); got != c.word {
			t.Errorf("%s: expected 0x%08X, got 0x%08X\n", c.src, c.word, got)
		}
	}
}

func TestEnable(t *testing.T) {
	r := bcm.NewFake()
	log, _ := test.NewNullLogger()
	c := New(r, log)

	if err := c.Enable(PLLD); err != nil {
		t.Fatalf("%+v\n", err)
	}

	fn, err := bcm.GetFunction(r, Pin)
	if err != nil {
		t.Fatalf("%+v\n", err)
	}
	if fn != bcm.Alt0 {
		t.Fatalf("expected ALT0 on GPIO%d, got %s\n", Pin, fn)
	}

	ctl := r.WritesTo(bcm.GP0CTL)
	if len(ctl) != 1 || ctl[0] != 0x5A000216 {
		t.Fatalf("unexpected control writes: %X\n", ctl)
	}

	if !c.Enabled() || c.Source() != PLLD {
		t.Fatalf("unexpected state: %v %s\n", c.Enabled(), c.Source())
	}
}

func TestEnableInvalid(t *testing.T) {
	r := bcm.NewFake()
	log, _ := test.NewNullLogger()
	c := New(r, log)

	err := c.Enable(Source(9))
	if !xerrors.Is(err, ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v\n", err)
	}
	if len(r.Writes()) != 0 {
		t.Fatalf("invalid source must not be written: %v\n", r.Writes())
	}
}

func TestDisableIdempotent(t *testing.T) {
	r := bcm.NewFake()
	log, _ := test.NewNullLogger()
	c := New(r, log)

	if err := c.Enable(PLLD); err != nil {
		t.Fatalf("%+v\n", err)
	}

	c.Disable()
	c.Disable()

	ctl := r.WritesTo(bcm.GP0CTL)
	if len(ctl) != 3 {
		t.Fatalf("expected 3 control writes, got %X\n", ctl)
	}
	if ctl[1] != ctl[2] || ctl[1] != ControlWord(GND) {
		t.Fatalf("disable words differ: 0x%08X 0x%08X\n", ctl[1], ctl[2])
	}

	if c.Enabled() || c.Source() != GND {
		t.Fatalf("unexpected state after disable: %v %s\n", c.Enabled(), c.Source())
	}
}

func TestParseSource(t *testing.T) {
	for idx, name := range []string{"gnd", "OSC", "testdebug0", "testdebug1", "plla", "pllc", " PLLD ", "hdmi"} {
		src, err := ParseSource(name)
		if err != nil {
			t.Fatalf("%q: %+v\n", name, err)
		}
		if src != Source(idx) {
			t.Errorf("%q: expected %d, got %d\n", name, idx, src)
		}
	}

	if _, err := ParseSource("pllb"); !xerrors.Is(err, ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v\n", err)
	}
}

func TestSourceString(t *testing.T) {
	if PLLD.String() != "plld" {
		t.Fatalf("unexpected name: %s\n", PLLD)
	}
	if Source(12).String() != "Source(12)" {
		t.Fatalf("unexpected name: %s\n", Source(12))
	}
}
