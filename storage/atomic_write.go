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

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
)

// DefaultTempFilePrefix is TempFilePrefix's default (spec.md §6).
const DefaultTempFilePrefix = ".lamina-tmp-"

var tempFileSeq uint64

// tempFilePath builds a temp path sibling to finalPath, named
// "<prefix><seq>-<base>" so the temp-file cleaner's prefix match finds
// it and concurrent writers to the same final path never collide on
// the same temp name.
func tempFilePath(finalPath, prefix string) string {
	if prefix == "" {
		prefix = DefaultTempFilePrefix
	}
	seq := atomic.AddUint64(&tempFileSeq, 1)
	dir := filepath.Dir(finalPath)
	base := filepath.Base(finalPath)
	return filepath.Join(dir, fmt.Sprintf("%s%d-%s", prefix, seq, base))
}

// WriteAtomic implements Invariant S1: stream src into a temp file
// beside finalPath, fsync it, rename it onto finalPath, then fsync the
// containing directory where supported. On any failure or ctx
// cancellation the temp file is unlinked and finalPath is left
// untouched (or, if it already existed, unmodified).
//
// write is called with the open temp *os.File and must return the
// number of bytes written plus any per-byte side effect (hashing) the
// caller needs; WriteAtomic does not interpret written beyond reporting
// it back to the caller on success. write itself runs exactly once: its
// source is typically a non-seekable request body, so it cannot be
// safely re-run after a partial read. policy only governs the
// surrounding filesystem calls (directory create, temp-file create,
// fsync, rename), which are pure and safe to retry on the transient
// CIFS/NFS conditions spec.md §4.3.3 names.
func WriteAtomic(ctx context.Context, finalPath, tempPrefix string, policy RetryPolicy, write func(io.Writer) (int64, error)) (written int64, err error) {
	dir := filepath.Dir(finalPath)
	if err = Retry(ctx, policy, func() error {
		return os.MkdirAll(dir, 0o755)
	}); err != nil {
		return 0, err
	}

	var (
		tmpPath string
		f       *os.File
	)
	if err = Retry(ctx, policy, func() error {
		tmpPath = tempFilePath(finalPath, tempPrefix)
		var oErr error
		f, oErr = os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		return oErr
	}); err != nil {
		return 0, err
	}

	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if ctx.Err() != nil {
		cleanup()
		return 0, ctx.Err()
	}

	written, err = write(f)
	if err != nil {
		cleanup()
		return 0, err
	}

	if ctx.Err() != nil {
		cleanup()
		return 0, ctx.Err()
	}

	if err = Retry(ctx, policy, f.Sync); err != nil {
		cleanup()
		return 0, err
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, err
	}

	if err = Retry(ctx, policy, func() error {
		return os.Rename(tmpPath, finalPath)
	}); err != nil {
		_ = os.Remove(tmpPath)
		return 0, err
	}

	if d, derr := os.Open(dir); derr == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	return written, nil
}
