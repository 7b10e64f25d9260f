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
	"strings"
	"time"
)

// transientErrorSubstrings classifies an I/O failure as a transient
// CIFS/NFS condition (spec.md §4.3.3). Matching is substring-based
// because these strings come from wrapped OS/driver errors whose exact
// type varies by platform.
var transientErrorSubstrings = []string{
	"process cannot access the file",
	"network path was not found",
	"Access is denied",
	"sharing violation",
	"network name no longer available",
	"directory is not empty",
	"Stale NFS file handle",
	"Input/output error",
	"0x80070074",
}

// IsTransient reports whether err looks like a transient network
// filesystem condition worth retrying, rather than a fatal one (e.g.
// "Disk quota exceeded").
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range transientErrorSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// RetryPolicy bounds how many times and how often a filesystem
// operation is retried after a transient failure.
type RetryPolicy struct {
	Count   int
	DelayMs int
}

// DefaultRetryPolicy matches spec.md §4.3.3's defaults.
var DefaultRetryPolicy = RetryPolicy{Count: 3, DelayMs: 0}

// Retry runs op up to policy.Count+1 times, retrying only on a
// transient error classified by IsTransient, sleeping policy.DelayMs
// between attempts. It stops immediately on a non-transient error or
// on ctx cancellation.
func Retry(ctx context.Context, policy RetryPolicy, op func() error) error {
	var lastErr error
	attempts := policy.Count + 1
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}

		if i < attempts-1 && policy.DelayMs > 0 {
			select {
			case <-time.After(time.Duration(policy.DelayMs) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}
