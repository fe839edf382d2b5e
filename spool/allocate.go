package spool

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileExt is the spool file extension. Fixed, like the port.
const FileExt = ".spl"

// createSpoolFile claims a unique name in dir for a session dispatched at
// now, and returns the open file together with its base name. Names are
// `<unix-secs>.spl`, then `<unix-secs>-1.spl` and so on when sessions land in
// the same second. The exclusive create is what makes concurrent allocation
// race-free: "already exists" is the signal to try the next suffix, any other
// error aborts the allocation.
func createSpoolFile(dir string, now time.Time) (*os.File, string, error) {
	ts := now.Unix()
	for suffix := 0; ; suffix++ {
		name := fmt.Sprintf("%d%s", ts, FileExt)
		if suffix > 0 {
			name = fmt.Sprintf("%d-%d%s", ts, suffix, FileExt)
		}

		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
	}
}
