package bcm

import (
	"testing"

	"periph.io/x/conn/v3/gpio"
)

func TestPinOut(t *testing.T) {
	r := NewFake()
	p, err := NewPin(r, 17)
	if err != nil {
		t.Fatalf("%+v\n", err)
	}

	if p.Name() != "GPIO17" || p.Number() != 17 {
		t.Fatalf("unexpected pin identity: %s %d\n", p.Name(), p.Number())
	}

	if err := p.Out(gpio.High); err != nil {
		t.Fatalf("%+v\n", err)
	}
	if err := p.Out(gpio.Low); err != nil {
		t.Fatalf("%+v\n", err)
	}

	expected := []Write{
		{GPFSEL0 + 4, 1 << 21},
		{GPSET0, 1 << 17},
		{GPCLR0, 1 << 17},
	}

	writes := r.Writes()
	if len(writes) != len(expected) {
		t.Fatalf("expected %v, got %v\n", expected, writes)
	}
	for idx := range expected {
		if writes[idx] != expected[idx] {
			t.Errorf("write %d: expected %s, got %s\n", idx, expected[idx], writes[idx])
		}
	}

	if p.Function() != "Out" {
		t.Fatalf("expected Out, got %s\n", p.Function())
	}
}

func TestPinRead(t *testing.T) {
	r := NewFake()
	p, err := NewPin(r, 40)
	if err != nil {
		t.Fatalf("%+v\n", err)
	}

	if p.Read() != gpio.Low {
		t.Fatal("expected low")
	}

	r.Write(GPLEV0+4, 1<<8)
	if p.Read() != gpio.High {
		t.Fatal("expected high")
	}
}

func TestPinInvalid(t *testing.T) {
	if _, err := NewPin(NewFake(), Pins); err == nil {
		t.Fatal("expected error")
	}
	p, _ := NewPin(NewFake(), 4)
	if err := p.PWM(gpio.DutyMax, 0); err == nil {
		t.Fatal("expected pwm error")
	}
}
