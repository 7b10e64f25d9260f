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
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"hash/crc32"
	"hash/crc64"
	"io"
	"os"

	"github.com/nabbar/lamina/types"
)

// crc64NVMETable is built directly: the standard library only ships the
// ISO and ECMA-182 CRC64 polynomials, not the Rocksoft NVMe one S3
// clients request under x-amz-checksum-algorithm=CRC64NVME.
var crc64NVMETable = crc64.MakeTable(0x9a6c9329ac4bc9b5)

// recomputeChecksums re-reads dataPath once and returns a fresh ETag
// (SHA-1, always) plus a Checksums value in which only the fields that
// were non-empty in prior are recomputed; fields empty in prior stay
// empty in the result, per Invariant D2's selective-recompute rule.
func recomputeChecksums(dataPath string, prior types.Checksums) (etag string, sums types.Checksums, err error) {
	f, err := os.Open(dataPath)
	if err != nil {
		return "", types.Checksums{}, err
	}
	defer func() { _ = f.Close() }()

	etagHash := sha1.New()
	writers := []io.Writer{etagHash}

	var crc32Hash, crc32cHash, sha1Hash, sha256Hash hash.Hash
	var crc64Hash hash.Hash64

	if prior.CRC32 != "" {
		crc32Hash = crc32.NewIEEE()
		writers = append(writers, crc32Hash)
	}
	if prior.CRC32C != "" {
		crc32cHash = crc32.New(crc32.MakeTable(crc32.Castagnoli))
		writers = append(writers, crc32cHash)
	}
	if prior.CRC64NVME != "" {
		crc64Hash = crc64.New(crc64NVMETable)
		writers = append(writers, crc64Hash)
	}
	if prior.SHA1 != "" {
		sha1Hash = sha1.New()
		writers = append(writers, sha1Hash)
	}
	if prior.SHA256 != "" {
		sha256Hash = sha256.New()
		writers = append(writers, sha256Hash)
	}

	if _, err = io.Copy(io.MultiWriter(writers...), f); err != nil {
		return "", types.Checksums{}, err
	}

	sums = types.Checksums{}
	if crc32Hash != nil {
		sums.CRC32 = base64.StdEncoding.EncodeToString(crc32Hash.Sum(nil))
	}
	if crc32cHash != nil {
		sums.CRC32C = base64.StdEncoding.EncodeToString(crc32cHash.Sum(nil))
	}
	if crc64Hash != nil {
		sums.CRC64NVME = base64.StdEncoding.EncodeToString(crc64Hash.Sum(nil))
	}
	if sha1Hash != nil {
		sums.SHA1 = base64.StdEncoding.EncodeToString(sha1Hash.Sum(nil))
	}
	if sha256Hash != nil {
		sums.SHA256 = base64.StdEncoding.EncodeToString(sha256Hash.Sum(nil))
	}

	return hex.EncodeToString(etagHash.Sum(nil)), sums, nil
}

// synthesizeMeta builds the default record Invariant D1 requires when no
// metadata file exists at all: ETag from data, guessed content-type, no
// user metadata, no checksums.
func synthesizeMeta(bucket, key, dataPath string, info os.FileInfo) (types.ObjectMeta, error) {
	etag, _, err := recomputeChecksums(dataPath, types.Checksums{})
	if err != nil {
		return types.ObjectMeta{}, err
	}
	return types.ObjectMeta{
		BucketName:   bucket,
		Key:          key,
		ETag:         etag,
		Size:         info.Size(),
		LastModified: info.ModTime().UTC(),
		ContentType:  DetectContentType(key),
		Metadata:     map[string]string{},
	}, nil
}
