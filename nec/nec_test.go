package nec

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/xerrors"
)

func equal(a, b Train) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}

func TestEncodeBose1(t *testing.T) {
	got := Encode(BoseDevice, BoseSubdevice, 1)
	if !equal(got, Bose1) {
		t.Fatalf("expected %s\ngot      %s\n", Bose1, got)
	}
}

// loadCaptured reads testdata/captured.txt: one capture per line, the command
// number followed by comma separated pulse entries.
func loadCaptured(t *testing.T) map[uint8]Train {
	t.Helper()

	f, err := os.Open(filepath.Join("testdata", "captured.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	captures := map[uint8]Train{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			t.Fatalf("malformed line: %q\n", line)
		}

		command, err := strconv.ParseUint(fields[0], 10, 8)
		if err != nil {
			t.Fatal(err)
		}

		var train Train
		for _, v := range strings.Split(fields[1], ",") {
			pulse, err := strconv.Atoi(v)
			if err != nil {
				t.Fatal(err)
			}
			train = append(train, pulse)
		}
		captures[uint8(command)] = train
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	return captures
}

func TestEncodeCaptured(t *testing.T) {
	captures := loadCaptured(t)
	if len(captures) != len(Captured) {
		t.Fatalf("expected %d captures, got %d\n", len(Captured), len(captures))
	}

	for _, command := range Captured {
		capture, ok := captures[command]
		if !ok {
			t.Errorf("%d: no capture\n", command)
			continue
		}

		got := Encode(BoseDevice, BoseSubdevice, command)
		if !equal(got, capture) {
			t.Errorf("%d: expected %s\ngot      %s\n", command, capture, got)
		}
	}

	if !equal(captures[1], Bose1) {
		t.Fatalf("captured command 1 differs from Bose1\n")
	}
}

func TestValidate(t *testing.T) {
	if err := (Train{}).Validate(); !xerrors.Is(err, ErrEmptyTrain) {
		t.Fatalf("expected ErrEmptyTrain, got %v\n", err)
	}
	if err := (Train{564, 0, -564}).Validate(); !xerrors.Is(err, ErrZeroPulse) {
		t.Fatalf("expected ErrZeroPulse, got %v\n", err)
	}
	if err := Bose1.Validate(); err != nil {
		t.Fatalf("%+v\n", err)
	}
}

func TestTrainDuration(t *testing.T) {
	train := Train{9024, -4512, 564, -564}
	if d := train.Duration(); d != 14664*time.Microsecond {
		t.Fatalf("expected 14.664ms, got %s\n", d)
	}
	if train.Marks() != 2 {
		t.Fatalf("expected 2 marks, got %d\n", train.Marks())
	}
	if train.String() != "[9024,-4512,564,-564]" {
		t.Fatalf("unexpected string: %s\n", train)
	}
}
