package bcm

import (
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestDetectBase(t *testing.T) {
	cases := []struct {
		name   string
		ranges []byte
		base   uint32
	}{
		{"pi1", []byte{0x7E, 0, 0, 0, 0x20, 0, 0, 0, 0x01, 0, 0, 0}, 0x20000000},
		{"pi3", []byte{0x7E, 0, 0, 0, 0x3F, 0, 0, 0, 0x01, 0, 0, 0}, 0x3F000000},
		{"pi4", []byte{0x7E, 0, 0, 0, 0, 0, 0, 0, 0xFE, 0, 0, 0, 0x01, 0x80, 0, 0}, 0xFE000000},
	}

	dir := t.TempDir()
	for _, c := range cases {
		path := filepath.Join(dir, c.name)
		if err := ioutil.WriteFile(path, c.ranges, 0644); err != nil {
			t.Fatal(err)
		}

		base, err := DetectBase(path)
		if err != nil {
			t.Fatalf("%s: %+v\n", c.name, err)
		}
		if base != c.base {
			t.Errorf("%s: expected 0x%08X, got 0x%08X\n", c.name, c.base, base)
		}
	}
}

func TestDetectBaseErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := DetectBase(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}

	short := filepath.Join(dir, "short")
	if err := ioutil.WriteFile(short, []byte{0x7E, 0, 0}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := DetectBase(short); err == nil {
		t.Fatal("expected error for short file")
	}

	zero := filepath.Join(dir, "zero")
	if err := ioutil.WriteFile(zero, make([]byte, 12), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := DetectBase(zero); err == nil {
		t.Fatal("expected error for zero base")
	}
}
