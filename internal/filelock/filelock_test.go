package filelock

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
)

func TestForTarget(t *testing.T) {
	lock := ForTarget("/tmp/export.json")
	if lock.Path() != "/tmp/export.json.lock" {
		t.Errorf("Path() = %q, want /tmp/export.json.lock", lock.Path())
	}
}

func TestLockCreatesParentDirectory(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "missing", "dir", "x.lock")
	lock := NewFileLock(lockPath)

	if err := lock.Lock(); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	defer lock.Unlock()

	if _, err := os.Stat(lockPath); err != nil {
		t.Errorf("lock file not created: %v", err)
	}
}

func TestTryLockHeldElsewhere(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "held.lock")

	first := NewFileLock(lockPath)
	if err := first.Lock(); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	second := NewFileLock(lockPath)
	acquired, err := second.TryLock()
	if err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	if acquired {
		t.Fatal("TryLock() acquired a lock that is already held")
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	acquired, err = second.TryLock()
	if err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	if !acquired {
		t.Error("TryLock() should succeed after release")
	}
	second.Unlock()
}

func TestWriteLockedSerialisesWriters(t *testing.T) {
	dir := t.TempDir()
	counterPath := filepath.Join(dir, "counter")
	if err := os.WriteFile(counterPath, []byte("0"), 0644); err != nil {
		t.Fatal(err)
	}

	const goroutines = 5
	const iterations = 10

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				lock := ForTarget(counterPath)
				if err := lock.Lock(); err != nil {
					t.Errorf("Lock() error = %v", err)
					return
				}
				data, err := os.ReadFile(counterPath)
				if err != nil {
					lock.Unlock()
					t.Errorf("read counter: %v", err)
					return
				}
				n, _ := strconv.Atoi(string(data))
				if err := AtomicWrite(counterPath, []byte(strconv.Itoa(n+1)), 0644); err != nil {
					t.Errorf("AtomicWrite() error = %v", err)
				}
				lock.Unlock()
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(counterPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != strconv.Itoa(goroutines*iterations) {
		t.Errorf("counter = %s, want %d", data, goroutines*iterations)
	}
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out", "history.json")

	if err := AtomicWrite(target, []byte("first"), 0600); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}
	if err := AtomicWrite(target, []byte("second"), 0600); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want second", data)
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("perm = %v, want 0600", info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

func TestAtomicWriteIntoDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	if err := AtomicWrite(dir, []byte("x"), 0644); err == nil {
		t.Error("expected error when target is a directory")
	}
}

func TestWriteLocked(t *testing.T) {
	target := filepath.Join(t.TempDir(), "export.yaml")

	if err := WriteLocked(target, []byte("runs: []\n"), 0644); err != nil {
		t.Fatalf("WriteLocked() error = %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "runs: []\n" {
		t.Errorf("content = %q", data)
	}

	acquired, err := ForTarget(target).TryLock()
	if err != nil {
		t.Fatal(err)
	}
	if !acquired {
		t.Error("lock should be released after WriteLocked")
	}
}
