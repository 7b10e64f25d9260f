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

package gateway

import (
	liberr "github.com/nabbar/golib/errors"
)

// CodeError band for this package (+900), following the same
// per-package convention as s3err (+100), chunked (+200), storage/meta
// (+300), storage (+400), sqlstore (+500), storage/cache (+600),
// multipart (+700) and cleaner (+800). These codes cover failures
// internal to request plumbing; anything S3-facing goes through s3err
// instead.
const (
	codeBadRequestBody liberr.CodeError = iota + liberr.MinAvailable + 900
	codeEncodeResponse
)

func init() {
	liberr.RegisterIdFctMessage(codeBadRequestBody, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case codeBadRequestBody:
		return "could not read request body"
	case codeEncodeResponse:
		return "could not encode response body"
	default:
		return ""
	}
}

func errBadRequestBody(parent error) liberr.Error { return codeBadRequestBody.Error(parent) }
func errEncodeResponse(parent error) liberr.Error { return codeEncodeResponse.Error(parent) }
