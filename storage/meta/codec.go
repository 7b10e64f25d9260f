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
	"time"

	"github.com/nabbar/lamina/types"
)

// record is the on-disk (or on-xattr) shape of a Metadata JSON record,
// matching spec.md §6's "Persisted formats" table field-for-field. The
// checksum fields carry omitempty so an absent checksum serializes as a
// missing key, not an empty string, keeping SeparateDirectory/Inline
// JSON and Xattr field presence consistent with each other.
type record struct {
	BucketName   string            `json:"BucketName"`
	Key          string            `json:"Key"`
	ETag         string            `json:"ETag"`
	Size         int64             `json:"Size"`
	LastModified time.Time         `json:"LastModified"`
	ContentType  string            `json:"ContentType"`
	Metadata     map[string]string `json:"Metadata"`

	ChecksumCRC32     string `json:"ChecksumCRC32,omitempty"`
	ChecksumCRC32C    string `json:"ChecksumCRC32C,omitempty"`
	ChecksumCRC64NVME string `json:"ChecksumCRC64NVME,omitempty"`
	ChecksumSHA1      string `json:"ChecksumSHA1,omitempty"`
	ChecksumSHA256    string `json:"ChecksumSHA256,omitempty"`
}

func toRecord(m types.ObjectMeta) record {
	return record{
		BucketName:        m.BucketName,
		Key:               m.Key,
		ETag:              m.ETag,
		Size:              m.Size,
		LastModified:      m.LastModified.UTC(),
		ContentType:       m.ContentType,
		Metadata:          m.Metadata,
		ChecksumCRC32:     m.Checksums.CRC32,
		ChecksumCRC32C:    m.Checksums.CRC32C,
		ChecksumCRC64NVME: m.Checksums.CRC64NVME,
		ChecksumSHA1:      m.Checksums.SHA1,
		ChecksumSHA256:    m.Checksums.SHA256,
	}
}

func (r record) toObjectMeta() types.ObjectMeta {
	return types.ObjectMeta{
		BucketName:   r.BucketName,
		Key:          r.Key,
		ETag:         r.ETag,
		Size:         r.Size,
		LastModified: r.LastModified.UTC(),
		ContentType:  r.ContentType,
		Metadata:     r.Metadata,
		Checksums: types.Checksums{
			CRC32:     r.ChecksumCRC32,
			CRC32C:    r.ChecksumCRC32C,
			CRC64NVME: r.ChecksumCRC64NVME,
			SHA1:      r.ChecksumSHA1,
			SHA256:    r.ChecksumSHA256,
		},
	}
}

func marshalRecord(m types.ObjectMeta) ([]byte, error) {
	return json.Marshal(toRecord(m))
}

func unmarshalRecord(data []byte) (types.ObjectMeta, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return types.ObjectMeta{}, err
	}
	return r.toObjectMeta(), nil
}
