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

package meta

import (
	"os"
	"time"

	liberr "github.com/nabbar/golib/errors"

	"github.com/nabbar/lamina/types"
)

// staleTolerance is Invariant D2's mtime comparison tolerance.
const staleTolerance = time.Second

// Resolver implements Invariants D1-D3 on top of a Store: it decides
// whether an object exists, synthesizes a record when none was
// persisted, and detects and repairs staleness on every read. It never
// touches the data file's bytes beyond stat and (on stale/absent
// metadata) a single read pass to recompute hashes.
type Resolver struct {
	store Store
}

// NewResolver wraps store with the D1-D3 read-repair policy.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Store returns the Store this Resolver wraps.
func (r *Resolver) Store() Store {
	return r.store
}

// Read resolves the metadata for (bucket, key) whose data file lives at
// dataPath. found=false means the data file does not exist (Invariant
// D1); any persisted metadata for it is deleted as a side effect
// (Invariant D3) before returning.
func (r *Resolver) Read(bucket, key, dataPath string) (rec types.ObjectMeta, found bool, err liberr.Error) {
	info, statErr := os.Stat(dataPath)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			_ = r.store.Delete(bucket, key, dataPath)
			return types.ObjectMeta{}, false, nil
		}
		return types.ObjectMeta{}, false, errDecodeRecord(statErr)
	}

	persisted, ok, rErr := r.store.Read(bucket, key, dataPath)
	if rErr != nil {
		return types.ObjectMeta{}, false, rErr
	}

	if !ok {
		synth, sErr := synthesizeMeta(bucket, key, dataPath, info)
		if sErr != nil {
			return types.ObjectMeta{}, false, errRecomputeChecksum(sErr)
		}
		return synth, true, nil
	}

	if !isStale(persisted, info) {
		return persisted, true, nil
	}

	etag, sums, rcErr := recomputeChecksums(dataPath, persisted.Checksums)
	if rcErr != nil {
		return types.ObjectMeta{}, false, errRecomputeChecksum(rcErr)
	}

	repaired := persisted
	repaired.ETag = etag
	repaired.Checksums = sums
	repaired.Size = info.Size()
	repaired.LastModified = info.ModTime().UTC()

	return repaired, true, nil
}

// isStale implements Invariant D2: metadata is stale when its recorded
// LastModified differs from the data file's mtime by more than one
// second, or its recorded size differs from the data file's size.
func isStale(rec types.ObjectMeta, info os.FileInfo) bool {
	if rec.Size != info.Size() {
		return true
	}
	delta := rec.LastModified.Sub(info.ModTime().UTC())
	if delta < 0 {
		delta = -delta
	}
	return delta > staleTolerance
}

// Write persists rec via the underlying store, but only when it carries
// something beyond the defaults write-time metadata otherwise skips
// (spec.md §4.3.5). rec.LastModified must already be the data file's
// mtime, not wall-clock time.
func (r *Resolver) Write(bucket, key, dataPath string, rec types.ObjectMeta) liberr.Error {
	if IsDefault(rec) {
		return nil
	}
	if err := r.store.Write(bucket, key, dataPath, rec); err != nil {
		return errWriteRecord(err)
	}
	return nil
}

// Delete removes any persisted record for (bucket, key).
func (r *Resolver) Delete(bucket, key, dataPath string) liberr.Error {
	return r.store.Delete(bucket, key, dataPath)
}
