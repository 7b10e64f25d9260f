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
	liberr "github.com/nabbar/golib/errors"
)

// CodeError band for this package (see s3err for the band convention).
const (
	codeMalformedChunkHeader liberr.CodeError = iota + liberr.MinAvailable + 200
	codeChunkTooLarge
	codeTruncatedChunk
	codeChecksumMismatch
)

func init() {
	liberr.RegisterIdFctMessage(codeMalformedChunkHeader, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case codeMalformedChunkHeader:
		return "malformed chunk header"
	case codeChunkTooLarge:
		return "chunk size exceeds maximum"
	case codeTruncatedChunk:
		return "chunk body truncated"
	case codeChecksumMismatch:
		return "declared checksum does not match computed checksum"
	default:
		return ""
	}
}

func errMalformedChunkHeader() liberr.Error { return codeMalformedChunkHeader.Error() }
func errChunkTooLarge() liberr.Error        { return codeChunkTooLarge.Error() }
func errTruncatedChunk() liberr.Error       { return codeTruncatedChunk.Error() }
func errChecksumMismatch() liberr.Error     { return codeChecksumMismatch.Error() }
