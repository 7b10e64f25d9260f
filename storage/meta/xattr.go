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
	"encoding/json"
	"os"
	"strconv"
	"time"

	"golang.org/x/sys/unix"

	liberr "github.com/nabbar/golib/errors"

	"github.com/nabbar/lamina/types"
)

// DefaultXattrPrefix is XattrPrefix's default (spec.md §6).
const DefaultXattrPrefix = "user.lamina."

var xattrFields = []string{
	"BucketName", "Key", "ETag", "Size", "LastModified", "ContentType", "Metadata",
	"ChecksumCRC32", "ChecksumCRC32C", "ChecksumCRC64NVME", "ChecksumSHA1", "ChecksumSHA256",
}

// XattrStore persists one extended attribute per metadata field on the
// data file itself, named "<prefix><FieldName>" (spec.md §6). There is
// no sidecar file: Delete clears the attributes it finds.
type XattrStore struct {
	prefix string
}

// NewXattrStore builds a Store that reads/writes xattrs prefixed with
// prefix (DefaultXattrPrefix when empty). probePath is stat-and-xattr
// probed immediately: per the resolved Open Question in SPEC_FULL.md §9,
// a filesystem that does not support extended attributes fails fast here
// rather than producing undefined per-write behavior later.
func NewXattrStore(prefix, probePath string) (*XattrStore, liberr.Error) {
	if prefix == "" {
		prefix = DefaultXattrPrefix
	}
	s := &XattrStore{prefix: prefix}

	if probePath != "" {
		if err := s.probe(probePath); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// probe writes and removes a throwaway attribute to confirm the
// filesystem backing probePath supports extended attributes at all.
func (s *XattrStore) probe(probePath string) liberr.Error {
	attr := s.prefix + "probe"
	if err := unix.Setxattr(probePath, attr, []byte("1"), 0); err != nil {
		return errXattrUnsupported(err)
	}
	_ = unix.Removexattr(probePath, attr)
	return nil
}

func (s *XattrStore) attr(field string) string {
	return s.prefix + field
}

func (s *XattrStore) getAttr(path, field string) (string, bool, error) {
	attr := s.attr(field)
	size, err := unix.Getxattr(path, attr, nil)
	if err != nil {
		if err == unix.ENODATA || os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	if size == 0 {
		return "", true, nil
	}
	buf := make([]byte, size)
	n, err := unix.Getxattr(path, attr, buf)
	if err != nil {
		return "", false, err
	}
	return string(buf[:n]), true, nil
}

func (s *XattrStore) setAttr(path, field, value string) error {
	if value == "" {
		return nil
	}
	return unix.Setxattr(path, s.attr(field), []byte(value), 0)
}

func (s *XattrStore) Read(_, _, dataPath string) (types.ObjectMeta, bool, liberr.Error) {
	etag, ok, err := s.getAttr(dataPath, "ETag")
	if err != nil {
		return types.ObjectMeta{}, false, errDecodeRecord(err)
	}
	if !ok {
		return types.ObjectMeta{}, false, nil
	}

	rec := types.ObjectMeta{ETag: etag, Metadata: map[string]string{}}

	if v, _, _ := s.getAttr(dataPath, "BucketName"); v != "" {
		rec.BucketName = v
	}
	if v, _, _ := s.getAttr(dataPath, "Key"); v != "" {
		rec.Key = v
	}
	if v, _, _ := s.getAttr(dataPath, "ContentType"); v != "" {
		rec.ContentType = v
	}
	if v, _, _ := s.getAttr(dataPath, "Size"); v != "" {
		if n, pErr := strconv.ParseInt(v, 10, 64); pErr == nil {
			rec.Size = n
		}
	}
	if v, _, _ := s.getAttr(dataPath, "LastModified"); v != "" {
		if t, pErr := time.Parse(time.RFC3339Nano, v); pErr == nil {
			rec.LastModified = t.UTC()
		}
	}
	if v, _, _ := s.getAttr(dataPath, "Metadata"); v != "" {
		_ = json.Unmarshal([]byte(v), &rec.Metadata)
	}
	if v, _, _ := s.getAttr(dataPath, "ChecksumCRC32"); v != "" {
		rec.Checksums.CRC32 = v
	}
	if v, _, _ := s.getAttr(dataPath, "ChecksumCRC32C"); v != "" {
		rec.Checksums.CRC32C = v
	}
	if v, _, _ := s.getAttr(dataPath, "ChecksumCRC64NVME"); v != "" {
		rec.Checksums.CRC64NVME = v
	}
	if v, _, _ := s.getAttr(dataPath, "ChecksumSHA1"); v != "" {
		rec.Checksums.SHA1 = v
	}
	if v, _, _ := s.getAttr(dataPath, "ChecksumSHA256"); v != "" {
		rec.Checksums.SHA256 = v
	}

	return rec, true, nil
}

func (s *XattrStore) Write(bucket, key, dataPath string, rec types.ObjectMeta) liberr.Error {
	metadataJSON := "{}"
	if len(rec.Metadata) > 0 {
		if b, err := json.Marshal(rec.Metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	values := map[string]string{
		"BucketName":        bucket,
		"Key":               key,
		"ETag":              rec.ETag,
		"Size":              strconv.FormatInt(rec.Size, 10),
		"LastModified":      rec.LastModified.UTC().Format(time.RFC3339Nano),
		"ContentType":       rec.ContentType,
		"Metadata":          metadataJSON,
		"ChecksumCRC32":     rec.Checksums.CRC32,
		"ChecksumCRC32C":    rec.Checksums.CRC32C,
		"ChecksumCRC64NVME": rec.Checksums.CRC64NVME,
		"ChecksumSHA1":      rec.Checksums.SHA1,
		"ChecksumSHA256":    rec.Checksums.SHA256,
	}

	for _, field := range xattrFields {
		v := values[field]
		if v == "" {
			_ = unix.Removexattr(dataPath, s.attr(field))
			continue
		}
		if err := s.setAttr(dataPath, field, v); err != nil {
			return errWriteRecord(err)
		}
	}
	return nil
}

func (s *XattrStore) Delete(_, _, dataPath string) liberr.Error {
	for _, field := range xattrFields {
		_ = unix.Removexattr(dataPath, s.attr(field))
	}
	return nil
}

var _ Store = (*XattrStore)(nil)
