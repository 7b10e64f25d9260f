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
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"io"
)

// partHasher feeds every byte written for one part to a SHA-1 digest,
// the part's ETag (spec.md §4.4). A part's ETag plays no role in
// assembling the final object's own ETag: Complete streams the part
// files back through the storage engine's own write path, which
// computes the object's ETag itself.
type partHasher struct {
	dst io.Writer
	sum hash.Hash
}

func newPartHasher(dst io.Writer) *partHasher {
	return &partHasher{dst: dst, sum: sha1.New()}
}

func (h *partHasher) Write(p []byte) (int, error) {
	n, err := h.dst.Write(p)
	if err != nil {
		return n, err
	}
	h.sum.Write(p[:n])
	return n, nil
}

func (h *partHasher) ETag() string {
	return hex.EncodeToString(h.sum.Sum(nil))
}
