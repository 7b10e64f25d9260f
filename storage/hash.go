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
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"hash/crc32"
	"hash/crc64"
	"io"

	"github.com/nabbar/lamina/types"
)

var crc64NVMETable = crc64.MakeTable(0x9a6c9329ac4bc9b5)

// ChecksumRequest selects which optional checksum algorithms a write
// must compute, on top of the ETag (SHA-1) every write always computes.
type ChecksumRequest struct {
	CRC32     bool
	CRC32C    bool
	CRC64NVME bool
	SHA1      bool
	SHA256    bool
}

// objectHasher wraps the temp file written by WriteAtomic, feeding every
// byte to the ETag hash plus any requested optional checksum hash.
type objectHasher struct {
	dst  io.Writer
	etag hash.Hash

	crc32   hash.Hash
	crc32c  hash.Hash
	crc64   hash.Hash64
	sha1h   hash.Hash
	sha256h hash.Hash
}

func newObjectHasher(dst io.Writer, req ChecksumRequest) *objectHasher {
	h := &objectHasher{dst: dst, etag: sha1.New()}
	if req.CRC32 {
		h.crc32 = crc32.NewIEEE()
	}
	if req.CRC32C {
		h.crc32c = crc32.New(crc32.MakeTable(crc32.Castagnoli))
	}
	if req.CRC64NVME {
		h.crc64 = crc64.New(crc64NVMETable)
	}
	if req.SHA1 {
		h.sha1h = sha1.New()
	}
	if req.SHA256 {
		h.sha256h = sha256.New()
	}
	return h
}

func (h *objectHasher) Write(p []byte) (int, error) {
	n, err := h.dst.Write(p)
	if err != nil {
		return n, err
	}
	h.etag.Write(p[:n])
	if h.crc32 != nil {
		h.crc32.Write(p[:n])
	}
	if h.crc32c != nil {
		h.crc32c.Write(p[:n])
	}
	if h.crc64 != nil {
		h.crc64.Write(p[:n])
	}
	if h.sha1h != nil {
		h.sha1h.Write(p[:n])
	}
	if h.sha256h != nil {
		h.sha256h.Write(p[:n])
	}
	return n, nil
}

func (h *objectHasher) ETag() string {
	return hex.EncodeToString(h.etag.Sum(nil))
}

func (h *objectHasher) Checksums() types.Checksums {
	var c types.Checksums
	if h.crc32 != nil {
		c.CRC32 = base64.StdEncoding.EncodeToString(h.crc32.Sum(nil))
	}
	if h.crc32c != nil {
		c.CRC32C = base64.StdEncoding.EncodeToString(h.crc32c.Sum(nil))
	}
	if h.crc64 != nil {
		c.CRC64NVME = base64.StdEncoding.EncodeToString(h.crc64.Sum(nil))
	}
	if h.sha1h != nil {
		c.SHA1 = base64.StdEncoding.EncodeToString(h.sha1h.Sum(nil))
	}
	if h.sha256h != nil {
		c.SHA256 = base64.StdEncoding.EncodeToString(h.sha256h.Sum(nil))
	}
	return c
}
