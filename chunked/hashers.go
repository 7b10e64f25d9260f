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

package chunked

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"hash/crc32"
	"hash/crc64"

	"github.com/nabbar/lamina/types"
)

// ChecksumAlgorithm names an optional additional checksum a client may
// request alongside the always-computed ETag (spec.md §3, §4.2).
type ChecksumAlgorithm string

const (
	ChecksumCRC32     ChecksumAlgorithm = "CRC32"
	ChecksumCRC32C    ChecksumAlgorithm = "CRC32C"
	ChecksumCRC64NVME ChecksumAlgorithm = "CRC64NVME"
	ChecksumSHA1      ChecksumAlgorithm = "SHA1"
	ChecksumSHA256    ChecksumAlgorithm = "SHA256"
)

// crc64NVMETable is the reflected NVMe CRC-64 polynomial
// (0x9a6c9329ac4bc9b5). hash/crc64 only ships the ISO and ECMA tables, so
// the NVMe table is built once here from the raw polynomial.
var crc64NVMETable = crc64.MakeTable(0x9a6c9329ac4bc9b5)

// ChecksumRequest is the optional client-declared checksum to verify
// against the computed value once the body has been fully read
// (spec.md §4.2, Invariant: mismatch fails with InvalidChecksum).
type ChecksumRequest struct {
	Algorithm ChecksumAlgorithm
	Expected  string // base64, as S3 clients send it
}

// hashSet accumulates the ETag hash (always SHA-1) plus any additional
// checksum hashers a request declared.
type hashSet struct {
	etag   hash.Hash
	extra  map[ChecksumAlgorithm]hash.Hash
}

func newHashSet(requested ChecksumAlgorithm) *hashSet {
	hs := &hashSet{etag: sha1.New(), extra: make(map[ChecksumAlgorithm]hash.Hash, 1)}
	switch requested {
	case ChecksumCRC32:
		hs.extra[ChecksumCRC32] = crc32.NewIEEE()
	case ChecksumCRC32C:
		hs.extra[ChecksumCRC32C] = crc32.New(crc32.MakeTable(crc32.Castagnoli))
	case ChecksumCRC64NVME:
		hs.extra[ChecksumCRC64NVME] = crc64.New(crc64NVMETable)
	case ChecksumSHA1:
		hs.extra[ChecksumSHA1] = sha1.New()
	case ChecksumSHA256:
		hs.extra[ChecksumSHA256] = sha256.New()
	}
	return hs
}

func (hs *hashSet) Write(p []byte) {
	hs.etag.Write(p)
	for _, h := range hs.extra {
		h.Write(p)
	}
}

// ETag returns the hex-encoded SHA-1 of every byte written.
func (hs *hashSet) ETag() string {
	return hex.EncodeToString(hs.etag.Sum(nil))
}

// Checksums materializes the requested additional checksum, if any, into
// a types.Checksums record. Fields for algorithms that were not
// requested stay empty (Invariant D2 relies on this: only previously
// non-empty fields are ever recomputed).
func (hs *hashSet) Checksums() types.Checksums {
	var c types.Checksums
	for algo, h := range hs.extra {
		sum := h.Sum(nil)
		switch algo {
		case ChecksumCRC32:
			c.CRC32 = base64.StdEncoding.EncodeToString(sum)
		case ChecksumCRC32C:
			c.CRC32C = base64.StdEncoding.EncodeToString(sum)
		case ChecksumCRC64NVME:
			c.CRC64NVME = base64.StdEncoding.EncodeToString(sum)
		case ChecksumSHA1:
			c.SHA1 = base64.StdEncoding.EncodeToString(sum)
		case ChecksumSHA256:
			c.SHA256 = base64.StdEncoding.EncodeToString(sum)
		}
	}
	return c
}

// checksumValue returns the base64 value the hashSet computed for algo,
// or "" if algo was not requested.
func (hs *hashSet) checksumValue(algo ChecksumAlgorithm) string {
	h, ok := hs.extra[algo]
	if !ok {
		return ""
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
