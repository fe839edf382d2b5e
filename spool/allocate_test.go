package spool

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

var fixedClock = time.Unix(1700000000, 0)

func TestCreateSpoolFileSequentialSuffixes(t *testing.T) {
	dir := t.TempDir()

	want := []string{
		"1700000000.spl",
		"1700000000-1.spl",
		"1700000000-2.spl",
	}
	for i, w := range want {
		f, name, err := createSpoolFile(dir, fixedClock)
		if err != nil {
			t.Fatalf("allocation %d: %v", i, err)
		}
		f.Close()
		if name != w {
			t.Errorf("allocation %d: name = %q, want %q", i, name, w)
		}
	}
}

func TestCreateSpoolFileExistingFileGetsSuffixOne(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "1700000000.spl"), []byte("first"), 0644); err != nil {
		t.Fatal(err)
	}

	f, name, err := createSpoolFile(dir, fixedClock)
	if err != nil {
		t.Fatal(err)
	}
	f.Close()

	if name != "1700000000-1.spl" {
		t.Errorf("name = %q, want 1700000000-1.spl", name)
	}
	data, err := os.ReadFile(filepath.Join(dir, "1700000000.spl"))
	if err != nil || string(data) != "first" {
		t.Errorf("existing file was disturbed: %q, %v", data, err)
	}
}

func TestCreateSpoolFileConcurrentDistinctNames(t *testing.T) {
	dir := t.TempDir()
	const n = 16

	var wg sync.WaitGroup
	names := make(chan string, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, name, err := createSpoolFile(dir, fixedClock)
			if err != nil {
				errs <- err
				return
			}
			f.Close()
			names <- name
		}()
	}
	wg.Wait()
	close(names)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent allocation: %v", err)
	}

	seen := map[string]bool{}
	for name := range names {
		if seen[name] {
			t.Errorf("name %q claimed twice", name)
		}
		seen[name] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct names, want %d", len(seen), n)
	}
	for i := 1; i < n; i++ {
		suffixed := fmt.Sprintf("1700000000-%d.spl", i)
		if !seen[suffixed] {
			t.Errorf("expected suffixed name %q among allocations", suffixed)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != n {
		t.Errorf("directory holds %d files, want %d", len(entries), n)
	}
}

func TestCreateSpoolFileBadDirectory(t *testing.T) {
	_, _, err := createSpoolFile(filepath.Join(t.TempDir(), "missing"), fixedClock)
	if err == nil {
		t.Fatal("allocation in a missing directory should fail")
	}
}
