package main

import (
	"bytes"
	"flag"
	"testing"

	"github.com/bemasher/bosecontrol/config"
	"github.com/bemasher/bosecontrol/csv"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestEnvOverride(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	y := fs.Float64("y", 0, "")
	format := fs.String("format", "plain", "")
	var f config.Frequency
	fs.Var(&f, "f", "")
	dry := fs.Bool("dryrun", false, "")

	t.Setenv("BOSECONTROL_Y", "-12.5")
	t.Setenv("BOSECONTROL_F", "27.145M")
	t.Setenv("BOSECONTROL_DRYRUN", "maybe")

	log, hook := test.NewNullLogger()
	EnvOverride(fs, log)

	if *y != -12.5 {
		t.Errorf("expected -12.5, got %f\n", *y)
	}
	if f.ScientificNotation != 27.145e6 {
		t.Errorf("expected 27.145e6, got %s\n", f)
	}
	if *format != "plain" {
		t.Errorf("format should keep its default, got %q\n", *format)
	}
	if *dry {
		t.Errorf("invalid boolean should not override")
	}

	levels := map[logrus.Level]int{}
	for _, e := range hook.AllEntries() {
		levels[e.Level]++
	}
	if levels[logrus.InfoLevel] != 2 || levels[logrus.WarnLevel] != 1 {
		t.Fatalf("unexpected log entries: %v\n", levels)
	}

	visited := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { visited[f.Name] = true })
	if !visited["y"] || !visited["f"] || visited["dryrun"] {
		t.Fatalf("unexpected set flags: %v\n", visited)
	}
}

func TestNewEncoder(t *testing.T) {
	buf := &bytes.Buffer{}

	for _, name := range []string{"plain", "CSV", "json"} {
		if _, err := NewEncoder(name, buf); err != nil {
			t.Errorf("%s: %+v\n", name, err)
		}
	}

	if enc, _ := NewEncoder("Csv", buf); enc == nil {
		t.Fatal("expected encoder")
	} else if _, ok := enc.(*csv.Encoder); !ok {
		t.Fatalf("expected *csv.Encoder, got %T\n", enc)
	}

	if _, err := NewEncoder("xml", buf); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestPlainEncoder(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := PlainEncoder{buf}

	if err := enc.Encode(Entry{Index: 3, Pulse: -564}); err != nil {
		t.Fatalf("%+v\n", err)
	}
	if buf.Len() == 0 || buf.Bytes()[buf.Len()-1] != '\n' {
		t.Fatalf("expected one line, got %q\n", buf.String())
	}
}
