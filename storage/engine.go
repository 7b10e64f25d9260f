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
	"errors"
	"io"
	"os"
	"path/filepath"

	liberr "github.com/nabbar/golib/errors"

	"github.com/nabbar/lamina/s3err"
	"github.com/nabbar/lamina/storage/cache"
	"github.com/nabbar/lamina/storage/lock"
	"github.com/nabbar/lamina/storage/meta"
	"github.com/nabbar/lamina/types"
)

// MetadataMode selects one of storage/meta's three Store
// implementations (spec.md §6, FilesystemStorage.MetadataMode).
type MetadataMode string

const (
	MetadataModeSeparateDirectory MetadataMode = "SeparateDirectory"
	MetadataModeInline            MetadataMode = "Inline"
	MetadataModeXattr             MetadataMode = "Xattr"
)

// Config is FilesystemStorage's settings (spec.md §6).
type Config struct {
	DataDirectory               string
	MetadataDirectory            string
	MetadataMode                 MetadataMode
	InlineMetadataDirectoryName  string
	XattrPrefix                  string
	TempFilePrefix               string
	RetryCount                   int
	RetryDelayMs                 int
}

// Engine is the filesystem object-storage engine: every object
// operation flows through it, guarded by a storage/lock.Manager and
// backed by a storage/meta.Resolver for the configured MetadataMode.
type Engine struct {
	cfg       Config
	locks     lock.Manager
	resolver  *meta.Resolver
	retry     RetryPolicy
	metaCache *cache.Cache
}

// SetMetadataCache attaches a storage/cache.Cache in front of the
// engine's metadata resolver (spec.md §6, MetadataCache.Enabled): a
// nil cache (the default) disables the optimization entirely, leaving
// every HeadObject/GetObject resolving metadata straight from disk.
func (e *Engine) SetMetadataCache(c *cache.Cache) {
	e.metaCache = c
}

// MetaStore exposes the meta.Store backing this Engine's resolver, so a
// caller wiring up cleaner.New can point the orphan-metadata sweeper at
// the same backing store the engine itself reads and writes.
func (e *Engine) MetaStore() meta.Store {
	return e.resolver.Store()
}

// NewEngine builds an Engine. For MetadataModeXattr it probes
// cfg.DataDirectory immediately and fails fast (rather than at first
// object write) if the filesystem does not support extended attributes,
// per the resolved Open Question in SPEC_FULL.md §9.
func NewEngine(cfg Config, locks lock.Manager) (*Engine, liberr.Error) {
	if cfg.TempFilePrefix == "" {
		cfg.TempFilePrefix = DefaultTempFilePrefix
	}
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = DefaultRetryPolicy.Count
	}

	var store meta.Store
	switch cfg.MetadataMode {
	case MetadataModeInline:
		store = meta.NewInlineStore(cfg.DataDirectory, cfg.InlineMetadataDirectoryName)
	case MetadataModeXattr:
		if err := os.MkdirAll(cfg.DataDirectory, 0o755); err != nil {
			return nil, errWriteFailed(err)
		}
		probe := filepath.Join(cfg.DataDirectory, ".lamina-xattr-probe")
		if err := os.WriteFile(probe, []byte("1"), 0o644); err != nil {
			return nil, errWriteFailed(err)
		}
		defer func() { _ = os.Remove(probe) }()

		xs, xErr := meta.NewXattrStore(cfg.XattrPrefix, probe)
		if xErr != nil {
			return nil, xErr
		}
		store = xs
	default:
		store = meta.NewSeparateDirectoryStore(cfg.MetadataDirectory)
	}

	return &Engine{
		cfg:      cfg,
		locks:    locks,
		resolver: meta.NewResolver(store),
		retry:    RetryPolicy{Count: cfg.RetryCount, DelayMs: cfg.RetryDelayMs},
	}, nil
}

// ObjectPath returns the absolute data-file path for (bucket, key).
func (e *Engine) ObjectPath(bucket, key string) string {
	return filepath.Join(e.bucketDir(bucket), key)
}

// multipartUploadsDirName is the reserved directory multipart upload
// state lives under (spec.md §6): "_multipart_uploads".
const multipartUploadsDirName = "_multipart_uploads"

// MultipartRoot returns the directory multipart upload state is rooted
// at, regardless of object-metadata mode: under MetadataDirectory if
// one is configured, otherwise colocated with data under the Inline
// metadata directory name (spec.md §6).
func (e *Engine) MultipartRoot() string {
	if e.cfg.MetadataDirectory != "" {
		return filepath.Join(e.cfg.MetadataDirectory, multipartUploadsDirName)
	}
	dirName := e.cfg.InlineMetadataDirectoryName
	if dirName == "" {
		dirName = meta.DefaultInlineMetadataDirectoryName
	}
	return filepath.Join(e.cfg.DataDirectory, dirName, multipartUploadsDirName)
}

// DataDirectory exposes the configured data root (needed by callers that
// must compose additional paths alongside the engine, e.g. the
// multipart manager's background cleaners).
func (e *Engine) DataDirectory() string {
	return e.cfg.DataDirectory
}

// TempFilePrefix exposes the configured temp-file prefix.
func (e *Engine) TempFilePrefix() string {
	return e.cfg.TempFilePrefix
}

// PutObject streams body into (bucket, key) using the atomic write
// protocol (Invariant S1), computing the ETag and any checksums req
// selects, then persists metadata per spec.md §4.3.5 (only if it
// differs from defaults).
func (e *Engine) PutObject(ctx context.Context, bucket, key string, body io.Reader, contentType string, userMeta map[string]string, req ChecksumRequest) (types.ObjectMeta, liberr.Error) {
	path := e.ObjectPath(bucket, key)
	unlock := e.locks.Lock(path)
	defer unlock()

	var hasher *objectHasher
	written, werr := WriteAtomic(ctx, path, e.cfg.TempFilePrefix, e.retry, func(w io.Writer) (int64, error) {
		hasher = newObjectHasher(w, req)
		return io.Copy(hasher, body)
	})
	if werr != nil {
		return types.ObjectMeta{}, errWriteFailed(werr)
	}

	var info os.FileInfo
	statErr := Retry(ctx, e.retry, func() error {
		var sErr error
		info, sErr = os.Stat(path)
		return sErr
	})
	if statErr != nil {
		return types.ObjectMeta{}, errWriteFailed(statErr)
	}

	if contentType == "" {
		contentType = meta.DetectContentType(key)
	}
	rec := types.ObjectMeta{
		BucketName:   bucket,
		Key:          key,
		ETag:         hasher.ETag(),
		Size:         written,
		LastModified: info.ModTime().UTC(),
		ContentType:  contentType,
		Metadata:     userMeta,
		Checksums:    hasher.Checksums(),
	}

	if err := e.resolver.Write(bucket, key, path, rec); err != nil {
		return types.ObjectMeta{}, err
	}
	if e.metaCache != nil {
		e.metaCache.Put(bucket, key, rec, rec.LastModified)
	}
	return rec, nil
}

// GetObject returns the object's bytes and resolved metadata. The
// returned ReadCloser holds the per-path read lock until Close is
// called; callers must always Close it.
func (e *Engine) GetObject(bucket, key string) (io.ReadCloser, types.ObjectMeta, liberr.Error) {
	path := e.ObjectPath(bucket, key)
	unlock := e.locks.RLock(path)

	rec, found, err := e.readMeta(bucket, key, path)
	if err != nil {
		unlock()
		return nil, types.ObjectMeta{}, err
	}
	if !found {
		unlock()
		return nil, types.ObjectMeta{}, s3err.New(s3err.KindNoSuchKey, "no such key: "+key)
	}

	var f *os.File
	oErr := Retry(context.Background(), e.retry, func() error {
		var err error
		f, err = os.Open(path)
		return err
	})
	if oErr != nil {
		unlock()
		return nil, types.ObjectMeta{}, errReadFailed(oErr)
	}

	return &unlockingReadCloser{ReadCloser: f, unlock: unlock}, rec, nil
}

// HeadObject resolves metadata without opening the object's bytes.
func (e *Engine) HeadObject(bucket, key string) (types.ObjectMeta, bool, liberr.Error) {
	path := e.ObjectPath(bucket, key)
	unlock := e.locks.RLock(path)
	defer unlock()

	return e.readMeta(bucket, key, path)
}

// errNoSuchMeta signals a resolver miss through metaCache.GetOrRecompute,
// whose recompute func cannot itself return the found-bool readMeta
// needs; readMeta recognizes it and reports a clean miss instead of an
// error.
var errNoSuchMeta = errors.New("no metadata on disk")

// readMeta resolves (bucket, key)'s metadata, consulting the optional
// metadata cache first. A cached entry is only served while the data
// file's mtime still matches the mtime it was cached under; a miss or
// a stale entry falls through to metaCache.GetOrRecompute, which
// deduplicates concurrent recomputation of the same stale key via
// singleflight before repopulating the cache.
func (e *Engine) readMeta(bucket, key, path string) (types.ObjectMeta, bool, liberr.Error) {
	if e.metaCache == nil {
		return e.resolver.Read(bucket, key, path)
	}

	var info os.FileInfo
	statErr := Retry(context.Background(), e.retry, func() error {
		var sErr error
		info, sErr = os.Stat(path)
		return sErr
	})
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return types.ObjectMeta{}, false, nil
		}
		return types.ObjectMeta{}, false, errReadFailed(statErr)
	}

	rec, err := e.metaCache.GetOrRecompute(bucket, key, info.ModTime(), func() (types.ObjectMeta, error) {
		rec, found, rErr := e.resolver.Read(bucket, key, path)
		if rErr != nil {
			return types.ObjectMeta{}, rErr
		}
		if !found {
			return types.ObjectMeta{}, errNoSuchMeta
		}
		return rec, nil
	})
	if err != nil {
		if errors.Is(err, errNoSuchMeta) {
			return types.ObjectMeta{}, false, nil
		}
		return types.ObjectMeta{}, false, err
	}
	return rec, true, nil
}

// DeleteObject removes the data file and any persisted metadata.
func (e *Engine) DeleteObject(bucket, key string) liberr.Error {
	path := e.ObjectPath(bucket, key)
	unlock := e.locks.Lock(path)
	defer unlock()

	removeErr := Retry(context.Background(), e.retry, func() error {
		err := os.Remove(path)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	})
	if removeErr != nil {
		return errWriteFailed(removeErr)
	}
	if e.metaCache != nil {
		e.metaCache.Delete(bucket, key)
	}
	return e.resolver.Delete(bucket, key, path)
}

// ListObjects applies the §4.3.6 listing algorithm under bucket,
// skipping the bucket-info sidecar, the Inline metadata sidecar
// directory (if that mode is configured) and any in-flight temp file.
func (e *Engine) ListObjects(bucket string, in ListInput) (ListResult, liberr.Error) {
	skip := skipNames{tempPrefix: e.cfg.TempFilePrefix, dirNames: []string{bucketInfoFileName}}
	if e.cfg.MetadataMode == MetadataModeInline {
		dirName := e.cfg.InlineMetadataDirectoryName
		if dirName == "" {
			dirName = meta.DefaultInlineMetadataDirectoryName
		}
		skip.dirNames = append(skip.dirNames, dirName)
	}

	res, err := List(e.bucketDir(bucket), in, skip)
	if err != nil {
		return ListResult{}, errReadFailed(err)
	}
	return res, nil
}

// unlockingReadCloser releases a lock.Manager hold exactly once, when
// the underlying file is closed.
type unlockingReadCloser struct {
	io.ReadCloser
	unlock func()
}

func (u *unlockingReadCloser) Close() error {
	err := u.ReadCloser.Close()
	u.unlock()
	return err
}
