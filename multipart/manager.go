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

package multipart

import (
	"context"
	"io"
	"os"
	"sort"
	"time"

	lbuuid "github.com/hashicorp/go-uuid"
	liberr "github.com/nabbar/golib/errors"
	"github.com/nabbar/golib/ioutils/mapCloser"

	"github.com/nabbar/lamina/s3err"
	"github.com/nabbar/lamina/storage"
	"github.com/nabbar/lamina/storage/lock"
	"github.com/nabbar/lamina/types"
)

// Engine is the subset of *storage.Engine the Manager needs: it
// finalizes a Complete by streaming assembled part bytes through the
// same atomic-write-plus-hash path a single PutObject uses.
type Engine interface {
	PutObject(ctx context.Context, bucket, key string, body io.Reader, contentType string, userMeta map[string]string, req storage.ChecksumRequest) (types.ObjectMeta, liberr.Error)
}

// Manager implements the multipart upload lifecycle (spec.md §4.4)
// over a directory tree rooted at root (see storage.Engine.MultipartRoot),
// one subdirectory per uploadId.
type Manager struct {
	root   string
	engine Engine
	locks  lock.Manager
}

// New builds a Manager. root is normally engine.MultipartRoot();
// locks is normally the same lock.Manager the storage engine uses, so
// that a part file and its upload record share the same lock domain as
// every other path-keyed operation in the process.
func New(root string, engine Engine, locks lock.Manager) *Manager {
	return &Manager{root: root, engine: engine, locks: locks}
}

// Initiate creates a new upload record in state UploadInitiated and
// returns its uploadId.
func (m *Manager) Initiate(bucket, key, contentType string, userMeta map[string]string) (string, liberr.Error) {
	id, uErr := lbuuid.GenerateUUID()
	if uErr != nil {
		return "", errWriteFailed(uErr)
	}

	rec := types.MultipartUpload{
		UploadID:    id,
		BucketName:  bucket,
		Key:         key,
		Initiated:   time.Now().UTC(),
		ContentType: contentType,
		Metadata:    userMeta,
		Parts:       make(map[int]types.PartMetadata),
		State:       types.UploadInitiated,
	}

	unlock := m.locks.Lock(m.recordPath(id))
	defer unlock()

	if err := m.writeRecord(rec); err != nil {
		return "", err
	}
	return id, nil
}

// loadActive reads uploadId's record and confirms it exists, matches
// (bucket, key), and is still in state UploadInitiated. Any other
// outcome is NoSuchUpload, per spec.md §4.4's terminal-state rule.
func (m *Manager) loadActive(uploadID, bucket, key string) (types.MultipartUpload, liberr.Error) {
	rec, found, err := m.readRecord(uploadID)
	if err != nil {
		return types.MultipartUpload{}, err
	}
	if !found || rec.BucketName != bucket || rec.Key != key || rec.State != types.UploadInitiated {
		return types.MultipartUpload{}, s3err.New(s3err.KindNoSuchUpload, "no such upload: "+uploadID)
	}
	return rec, nil
}

// UploadPart streams body into uploadId's part file for partNumber,
// computing its ETag, then records it in the upload's parts map.
// Distinct part numbers may be uploaded concurrently: the part file is
// locked individually and the record is only locked for the brief
// update of its parts map (spec.md §5).
func (m *Manager) UploadPart(ctx context.Context, uploadID, bucket, key string, partNumber int, body io.Reader) (types.PartMetadata, liberr.Error) {
	if _, err := m.loadActive(uploadID, bucket, key); err != nil {
		return types.PartMetadata{}, err
	}

	partPath := m.partPath(uploadID, partNumber)
	unlockPart := m.locks.Lock(partPath)
	defer unlockPart()

	var hasher *partHasher
	written, wErr := storage.WriteAtomic(ctx, partPath, "", storage.DefaultRetryPolicy, func(w io.Writer) (int64, error) {
		hasher = newPartHasher(w)
		return io.Copy(hasher, body)
	})
	if wErr != nil {
		return types.PartMetadata{}, errWriteFailed(wErr)
	}

	info, sErr := os.Stat(partPath)
	if sErr != nil {
		return types.PartMetadata{}, errReadFailed(sErr)
	}

	part := types.PartMetadata{
		PartNumber:   partNumber,
		Size:         written,
		ETag:         hasher.ETag(),
		LastModified: info.ModTime().UTC(),
	}

	unlockRecord := m.locks.Lock(m.recordPath(uploadID))
	defer unlockRecord()

	rec, err := m.loadActive(uploadID, bucket, key)
	if err != nil {
		return types.PartMetadata{}, err
	}
	rec.Parts[partNumber] = part
	if err := m.writeRecord(rec); err != nil {
		return types.PartMetadata{}, err
	}
	return part, nil
}

// Complete validates the requested part list against the upload's
// recorded parts, then streams the parts, in the order given, through
// the storage engine's atomic write path to produce one object. On
// success every part file and the upload record are removed. On
// failure the upload state is left untouched so the client can retry
// or Abort (spec.md §4.4).
func (m *Manager) Complete(ctx context.Context, uploadID, bucket, key string, requested []types.CompletedPart) (types.ObjectMeta, liberr.Error) {
	unlockRecord := m.locks.Lock(m.recordPath(uploadID))
	defer unlockRecord()

	rec, err := m.loadActive(uploadID, bucket, key)
	if err != nil {
		return types.ObjectMeta{}, err
	}

	if err := validatePartList(rec.Parts, requested); err != nil {
		return types.ObjectMeta{}, err
	}

	closer := mapCloser.New(ctx)
	defer func() { _ = closer.Close() }()

	readers := make([]io.Reader, 0, len(requested))
	for _, p := range requested {
		f, oErr := os.Open(m.partPath(uploadID, p.PartNumber))
		if oErr != nil {
			return types.ObjectMeta{}, errReadFailed(oErr)
		}
		closer.Add(f)
		readers = append(readers, f)
	}

	obj, pErr := m.engine.PutObject(ctx, bucket, key, io.MultiReader(readers...), rec.ContentType, rec.Metadata, storage.ChecksumRequest{})
	if pErr != nil {
		return types.ObjectMeta{}, pErr
	}

	if cErr := closer.Close(); cErr != nil {
		return types.ObjectMeta{}, errReadFailed(cErr)
	}
	if rErr := os.RemoveAll(m.uploadDir(uploadID)); rErr != nil {
		return types.ObjectMeta{}, errWriteFailed(rErr)
	}

	return obj, nil
}

// validatePartList checks that every requested part is present with a
// matching ETag and that part numbers strictly increase (spec.md §4.4).
func validatePartList(have map[int]types.PartMetadata, requested []types.CompletedPart) liberr.Error {
	if len(requested) == 0 {
		return s3err.New(s3err.KindInvalidArgument, "completed part list is empty")
	}

	prev := -1
	for _, p := range requested {
		if p.PartNumber <= prev {
			return s3err.New(s3err.KindInvalidArgument, "part numbers must strictly increase")
		}
		prev = p.PartNumber

		got, ok := have[p.PartNumber]
		if !ok {
			return s3err.New(s3err.KindInvalidArgument, "unknown part number in completed list")
		}
		if got.ETag != p.ETag {
			return s3err.New(s3err.KindInvalidArgument, "part ETag does not match uploaded part")
		}
	}
	return nil
}

// Abort discards uploadId's state unconditionally: every part file and
// the upload record are removed.
func (m *Manager) Abort(uploadID, bucket, key string) liberr.Error {
	unlock := m.locks.Lock(m.recordPath(uploadID))
	defer unlock()

	if _, err := m.loadActive(uploadID, bucket, key); err != nil {
		return err
	}

	if err := os.RemoveAll(m.uploadDir(uploadID)); err != nil {
		return errWriteFailed(err)
	}
	return nil
}

// ListUploads returns every in-progress upload under bucket, ordered by
// uploadId. An empty bucket lists across every bucket (used by the
// stale-upload cleaner).
func (m *Manager) ListUploads(bucket string) ([]types.MultipartUpload, liberr.Error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errReadFailed(err)
	}

	out := make([]types.MultipartUpload, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		rec, found, rErr := m.readRecord(e.Name())
		if rErr != nil || !found || rec.State != types.UploadInitiated {
			continue
		}
		if bucket != "" && rec.BucketName != bucket {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UploadID < out[j].UploadID })
	return out, nil
}
