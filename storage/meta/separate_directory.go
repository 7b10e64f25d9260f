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
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	liberr "github.com/nabbar/golib/errors"

	"github.com/nabbar/lamina/types"
)

// SeparateDirectoryStore persists one JSON file per object under a
// metadata root that mirrors the bucket/key layout of the data root:
// MetadataDirectory/<bucket>/<key>.json (spec.md §6).
type SeparateDirectoryStore struct {
	root string
}

// NewSeparateDirectoryStore builds a Store rooted at metadataRoot.
func NewSeparateDirectoryStore(metadataRoot string) *SeparateDirectoryStore {
	return &SeparateDirectoryStore{root: metadataRoot}
}

func (s *SeparateDirectoryStore) path(bucket, key string) string {
	return filepath.Join(s.root, bucket, key+".json")
}

func (s *SeparateDirectoryStore) Read(bucket, key, _ string) (types.ObjectMeta, bool, liberr.Error) {
	return readJSONFile(s.path(bucket, key))
}

func (s *SeparateDirectoryStore) Write(bucket, key, _ string, rec types.ObjectMeta) liberr.Error {
	return writeJSONFile(s.path(bucket, key), rec)
}

func (s *SeparateDirectoryStore) Delete(bucket, key, _ string) liberr.Error {
	return deleteJSONFile(s.path(bucket, key))
}

// Walk visits every persisted (bucket, key) pair by walking the
// metadata root directly: the file tree under root is the complete
// enumeration, with no data-root traversal needed.
func (s *SeparateDirectoryStore) Walk(visit func(bucket, key string) liberr.Error) liberr.Error {
	walkErr := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		rel, rErr := filepath.Rel(s.root, path)
		if rErr != nil {
			return rErr
		}
		rel = filepath.ToSlash(rel)
		bucket, key, ok := strings.Cut(rel, "/")
		if !ok {
			return nil
		}
		key = strings.TrimSuffix(key, ".json")

		if vErr := visit(bucket, key); vErr != nil {
			return vErr
		}
		return nil
	})
	if walkErr != nil {
		if le, ok := walkErr.(liberr.Error); ok {
			return le
		}
		return errDecodeRecord(walkErr)
	}
	return nil
}

var _ Store = (*SeparateDirectoryStore)(nil)
