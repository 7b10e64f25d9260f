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
	liberr "github.com/nabbar/golib/errors"
)

const (
	codeDecodeRecord liberr.CodeError = iota + liberr.MinAvailable + 300
	codeWriteRecord
	codeRecomputeChecksum
	codeXattrUnsupported
)

func init() {
	liberr.RegisterIdFctMessage(codeDecodeRecord, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case codeDecodeRecord:
		return "metadata record could not be decoded"
	case codeWriteRecord:
		return "metadata record could not be written"
	case codeRecomputeChecksum:
		return "could not recompute checksum from data file"
	case codeXattrUnsupported:
		return "filesystem does not support extended attributes"
	default:
		return ""
	}
}

func errDecodeRecord(parent error) liberr.Error {
	return codeDecodeRecord.Error(parent)
}

func errWriteRecord(parent error) liberr.Error {
	return codeWriteRecord.Error(parent)
}

func errRecomputeChecksum(parent error) liberr.Error {
	return codeRecomputeChecksum.Error(parent)
}

// errXattrUnsupported is returned at Store construction time when the
// configured data root does not support extended attributes, per the
// resolved Open Question in SPEC_FULL.md §9 (fail fast at setup rather
// than surface undefined per-write behavior).
func errXattrUnsupported(parent error) liberr.Error {
	return codeXattrUnsupported.Error(parent)
}
