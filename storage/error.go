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
	liberr "github.com/nabbar/golib/errors"
)

const (
	codeWriteFailed liberr.CodeError = iota + liberr.MinAvailable + 400
	codeReadFailed
	codeRetriesExhausted
	codeBucketExists
	codeBucketNotEmpty
)

func init() {
	liberr.RegisterIdFctMessage(codeWriteFailed, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case codeWriteFailed:
		return "object write failed"
	case codeReadFailed:
		return "object read failed"
	case codeRetriesExhausted:
		return "operation failed after exhausting retries"
	case codeBucketExists:
		return "bucket already exists"
	case codeBucketNotEmpty:
		return "bucket is not empty"
	default:
		return ""
	}
}

func errWriteFailed(parent error) liberr.Error      { return codeWriteFailed.Error(parent) }
func errReadFailed(parent error) liberr.Error       { return codeReadFailed.Error(parent) }
func errRetriesExhausted(parent error) liberr.Error { return codeRetriesExhausted.Error(parent) }
