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

// DefaultInlineMetadataDirectoryName is InlineMetadataDirectoryName's
// default (spec.md §6).
const DefaultInlineMetadataDirectoryName = ".lamina-meta"

// InlineStore persists one JSON file per object under a dotfile
// directory living inside the object's own bucket directory, alongside
// the data files: DataDirectory/<bucket>/<dirName>/<key>.json.
//
// The listing algorithm (storage package, spec.md §4.3.6) must skip any
// path segment equal to dirName so this sidecar directory never appears
// as a listed object or common prefix.
type InlineStore struct {
	dataRoot string
	dirName  string
}

// NewInlineStore builds a Store rooted at dataRoot, the same root the
// storage engine uses for object data. dirName defaults to
// DefaultInlineMetadataDirectoryName when empty.
func NewInlineStore(dataRoot, dirName string) *InlineStore {
	if dirName == "" {
		dirName = DefaultInlineMetadataDirectoryName
	}
	return &InlineStore{dataRoot: dataRoot, dirName: dirName}
}

func (s *InlineStore) path(bucket, key string) string {
	return filepath.Join(s.dataRoot, bucket, s.dirName, key+".json")
}

func (s *InlineStore) Read(bucket, key, _ string) (types.ObjectMeta, bool, liberr.Error) {
	return readJSONFile(s.path(bucket, key))
}

func (s *InlineStore) Write(bucket, key, _ string, rec types.ObjectMeta) liberr.Error {
	return writeJSONFile(s.path(bucket, key), rec)
}

func (s *InlineStore) Delete(bucket, key, _ string) liberr.Error {
	return deleteJSONFile(s.path(bucket, key))
}

// Walk visits every persisted (bucket, key) pair. Unlike
// SeparateDirectoryStore, the sidecar directory is nested one level
// inside each bucket directory alongside the data files themselves, so
// Walk lists buckets first and then descends into each one's dirName
// directory individually, rather than walking dataRoot wholesale.
func (s *InlineStore) Walk(visit func(bucket, key string) liberr.Error) liberr.Error {
	buckets, err := os.ReadDir(s.dataRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errDecodeRecord(err)
	}

	for _, b := range buckets {
		if !b.IsDir() {
			continue
		}
		bucket := b.Name()
		metaDir := filepath.Join(s.dataRoot, bucket, s.dirName)

		walkErr := filepath.WalkDir(metaDir, func(path string, d fs.DirEntry, wErr error) error {
			if wErr != nil {
				if os.IsNotExist(wErr) {
					return nil
				}
				return wErr
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
				return nil
			}

			rel, rErr := filepath.Rel(metaDir, path)
			if rErr != nil {
				return rErr
			}
			key := strings.TrimSuffix(filepath.ToSlash(rel), ".json")

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
	}
	return nil
}

var _ Store = (*InlineStore)(nil)
