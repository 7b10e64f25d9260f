/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package cleaner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	liblog "github.com/nabbar/golib/logger"
)

// sweepTempFile walks the data root for leftover atomic-write temp
// files (storage.WriteAtomic ordinarily cleans these up itself; only a
// crash mid-write leaves one behind) and removes any older than
// TempFileCleanup.TempFileAgeMinutes (spec.md §4.5). A file that
// disappears or fails to stat between listing and removal is skipped,
// not fatal to the sweep.
func (m *Manager) sweepTempFile(ctx context.Context, _ *time.Ticker) error {
	prefix := m.engine.TempFilePrefix()
	cutoff := m.clock().Add(-m.cfg.TempFileCleanup.age())

	grp, gCtx := errgroup.WithContext(ctx)
	grp.SetLimit(batchLimit(m.cfg.TempFileCleanup.BatchSize))

	walkErr := filepath.WalkDir(m.engine.DataDirectory(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasPrefix(d.Name(), prefix) {
			return nil
		}

		select {
		case <-gCtx.Done():
			return nil
		default:
		}

		grp.Go(func() error {
			sweepTempCandidate(path, cutoff)
			return nil
		})
		return nil
	})
	if walkErr != nil {
		liblog.WarnLevel.LogErrorCtxf(liblog.NilLevel, "temp-file sweep: walk data root", walkErr)
	}

	_ = grp.Wait()
	return nil
}

// sweepTempCandidate removes path if its mtime is older than cutoff.
func sweepTempCandidate(path string, cutoff time.Time) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if !os.IsNotExist(statErr) {
			liblog.WarnLevel.LogErrorCtxf(liblog.NilLevel, "temp-file sweep: stat %s", statErr, path)
		}
		return
	}
	if info.ModTime().After(cutoff) {
		return
	}

	if rErr := os.Remove(path); rErr != nil && !os.IsNotExist(rErr) {
		liblog.WarnLevel.LogErrorCtxf(liblog.NilLevel, "temp-file sweep: remove %s", rErr, path)
		return
	}
	liblog.InfoLevel.Logf("temp-file sweep: removed stale temp file %s", path)
}
