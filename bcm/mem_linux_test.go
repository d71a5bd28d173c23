//go:build linux

package bcm

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestOpenMissingDevice(t *testing.T) {
	saved := MemPath
	defer func() { MemPath = saved }()

	MemPath = filepath.Join(t.TempDir(), "mem")

	_, err := Open(DefaultBase, Size)
	if err == nil {
		t.Fatal("expected error")
	}
	if !os.IsNotExist(errors.Cause(err)) {
		t.Fatalf("expected not-exist cause, got %+v\n", err)
	}
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic\n", name)
		}
	}()
	fn()
}

// A regular file stands in for /dev/mem; the mapping behaves the same.
func TestMemReadWrite(t *testing.T) {
	saved := MemPath
	defer func() { MemPath = saved }()

	MemPath = filepath.Join(t.TempDir(), "mem")
	f, err := os.Create(MemPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(Size); err != nil {
		t.Fatal(err)
	}
	f.Close()

	m, err := Open(0, Size)
	if err != nil {
		t.Fatalf("%+v\n", err)
	}

	if m.Base() != 0 {
		t.Fatalf("unexpected base: 0x%08X\n", m.Base())
	}

	m.Write(GP0DIV, 0x5A0126B7)
	if v := m.Read(GP0DIV); v != 0x5A0126B7 {
		t.Fatalf("expected 0x5A0126B7, got 0x%08X\n", v)
	}
	if v := m.Read(GP0CTL); v != 0 {
		t.Fatalf("expected untouched register to read 0, got 0x%08X\n", v)
	}

	mustPanic(t, "misaligned", func() { m.Read(GP0DIV + 1) })
	mustPanic(t, "outside window", func() { m.Write(Size, 0) })

	if err := m.Close(); err != nil {
		t.Fatalf("%+v\n", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second close: %+v\n", err)
	}

	data, err := ioutil.ReadFile(MemPath)
	if err != nil {
		t.Fatal(err)
	}
	if data[GP0DIV] != 0xB7 || data[GP0DIV+3] != 0x5A {
		t.Fatalf("write not visible in backing file: % X\n", data[GP0DIV:GP0DIV+4])
	}
}
