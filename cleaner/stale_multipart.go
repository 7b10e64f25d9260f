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
	"time"

	liblog "github.com/nabbar/golib/logger"
)

// sweepStaleMultipart aborts every in-progress upload whose Initiated
// time is older than MultipartUploadCleanup.TimeoutHours (spec.md §4.5).
// Each upload is aborted independently: one upload's failure is logged
// and does not stop the sweep of the rest.
func (m *Manager) sweepStaleMultipart(_ context.Context, _ *time.Ticker) error {
	uploads, err := m.uploads.ListUploads("")
	if err != nil {
		liblog.WarnLevel.LogErrorCtxf(liblog.NilLevel, "stale-multipart sweep: list uploads", err)
		return nil
	}

	cutoff := m.clock().Add(-m.cfg.MultipartUploadCleanup.timeout())

	for _, u := range uploads {
		if u.Initiated.After(cutoff) {
			continue
		}
		if aErr := m.uploads.Abort(u.UploadID, u.BucketName, u.Key); aErr != nil {
			liblog.WarnLevel.LogErrorCtxf(liblog.NilLevel, "stale-multipart sweep: abort upload %s", aErr, u.UploadID)
			continue
		}
		liblog.InfoLevel.Logf("stale-multipart sweep: aborted upload %s (bucket=%s key=%s, initiated=%s)",
			u.UploadID, u.BucketName, u.Key, u.Initiated.Format(time.RFC3339))
	}

	return nil
}
