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

package sqlstore

import (
	"encoding/json"
	"time"

	"github.com/nabbar/lamina/types"
)

// objectRow is the gorm model backing one MetadataStore entry. The
// primary key is the (bucket, key) pair; Metadata and the checksum
// fields are flattened to columns so a deployment can index or query
// them directly with plain SQL if it needs to.
type objectRow struct {
	BucketName   string    `gorm:"primaryKey;column:bucket_name"`
	Key          string    `gorm:"primaryKey;column:object_key"`
	ETag         string    `gorm:"column:etag"`
	Size         int64     `gorm:"column:size"`
	LastModified time.Time `gorm:"column:last_modified"`
	ContentType  string    `gorm:"column:content_type"`
	MetadataJSON string    `gorm:"column:metadata_json"`

	ChecksumCRC32     string `gorm:"column:checksum_crc32"`
	ChecksumCRC32C    string `gorm:"column:checksum_crc32c"`
	ChecksumCRC64NVME string `gorm:"column:checksum_crc64nvme"`
	ChecksumSHA1      string `gorm:"column:checksum_sha1"`
	ChecksumSHA256    string `gorm:"column:checksum_sha256"`
}

func (objectRow) TableName() string {
	return "lamina_objects"
}

func toRow(rec types.ObjectMeta) objectRow {
	meta, _ := json.Marshal(rec.Metadata)
	return objectRow{
		BucketName:        rec.BucketName,
		Key:               rec.Key,
		ETag:              rec.ETag,
		Size:              rec.Size,
		LastModified:      rec.LastModified,
		ContentType:       rec.ContentType,
		MetadataJSON:      string(meta),
		ChecksumCRC32:     rec.Checksums.CRC32,
		ChecksumCRC32C:    rec.Checksums.CRC32C,
		ChecksumCRC64NVME: rec.Checksums.CRC64NVME,
		ChecksumSHA1:      rec.Checksums.SHA1,
		ChecksumSHA256:    rec.Checksums.SHA256,
	}
}

func (r objectRow) toObjectMeta() types.ObjectMeta {
	var meta map[string]string
	if r.MetadataJSON != "" {
		_ = json.Unmarshal([]byte(r.MetadataJSON), &meta)
	}
	return types.ObjectMeta{
		BucketName:   r.BucketName,
		Key:          r.Key,
		ETag:         r.ETag,
		Size:         r.Size,
		LastModified: r.LastModified,
		ContentType:  r.ContentType,
		Metadata:     meta,
		Checksums: types.Checksums{
			CRC32:     r.ChecksumCRC32,
			CRC32C:    r.ChecksumCRC32C,
			CRC64NVME: r.ChecksumCRC64NVME,
			SHA1:      r.ChecksumSHA1,
			SHA256:    r.ChecksumSHA256,
		},
	}
}
