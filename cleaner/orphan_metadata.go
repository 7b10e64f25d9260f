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
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	"github.com/nabbar/lamina/storage/meta"
)

// sweepOrphanMetadata streams every persisted metadata record and
// deletes any whose data file no longer exists (spec.md §4.5). It only
// runs against a Store that implements meta.Walker: Xattr metadata
// cannot outlive its data file by construction, so there is nothing to
// enumerate or sweep in that mode.
func (m *Manager) sweepOrphanMetadata(ctx context.Context, _ *time.Ticker) error {
	walker, ok := m.store.(meta.Walker)
	if !ok {
		liblog.DebugLevel.Log("orphan-metadata sweep: configured metadata mode does not support enumeration, skipping")
		return nil
	}

	grp, gCtx := errgroup.WithContext(ctx)
	grp.SetLimit(batchLimit(m.cfg.MetadataCleanup.BatchSize))

	walkErr := walker.Walk(func(bucket, key string) liberr.Error {
		select {
		case <-gCtx.Done():
			return nil
		default:
		}

		grp.Go(func() error {
			m.sweepOrphanCandidate(bucket, key)
			return nil
		})
		return nil
	})
	if walkErr != nil {
		liblog.WarnLevel.LogErrorCtxf(liblog.NilLevel, "orphan-metadata sweep: walk", walkErr)
	}

	_ = grp.Wait()
	return nil
}

// sweepOrphanCandidate deletes bucket/key's metadata record if its data
// file is missing. A stat failure other than not-exist is logged and
// left alone rather than risking deletion of a live record.
func (m *Manager) sweepOrphanCandidate(bucket, key string) {
	dataPath := m.engine.ObjectPath(bucket, key)

	_, statErr := os.Stat(dataPath)
	if statErr == nil {
		return
	}
	if !os.IsNotExist(statErr) {
		liblog.WarnLevel.LogErrorCtxf(liblog.NilLevel, "orphan-metadata sweep: stat data file for %s/%s", statErr, bucket, key)
		return
	}

	if dErr := m.store.Delete(bucket, key, dataPath); dErr != nil {
		liblog.WarnLevel.LogErrorCtxf(liblog.NilLevel, "orphan-metadata sweep: delete orphaned record %s/%s", dErr, bucket, key)
		return
	}
	liblog.InfoLevel.Logf("orphan-metadata sweep: removed orphaned record %s/%s", bucket, key)
}
