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

package s3err

import (
	liberr "github.com/nabbar/golib/errors"
)

// CodeError band for this package, following the teacher's per-package
// band convention (errors.MinAvailable is the first free slot past the
// library's own reserved ranges).
const (
	codeNoSuchBucket liberr.CodeError = iota + liberr.MinAvailable + 100
	codeNoSuchKey
	codeNoSuchUpload
	codeBucketAlreadyExists
	codeBucketNotEmpty
	codeInvalidBucketName
	codeInvalidArgument
	codeInvalidChecksum
	codeSignatureDoesNotMatch
	codeAccessDenied
	codeMissingAuth
	codeInvalidAuthFormat
	codeInternal
)

var kindToCode = map[Kind]liberr.CodeError{
	KindNoSuchBucket:          codeNoSuchBucket,
	KindNoSuchKey:             codeNoSuchKey,
	KindNoSuchUpload:          codeNoSuchUpload,
	KindBucketAlreadyExists:   codeBucketAlreadyExists,
	KindBucketNotEmpty:        codeBucketNotEmpty,
	KindInvalidBucketName:     codeInvalidBucketName,
	KindInvalidArgument:       codeInvalidArgument,
	KindInvalidChecksum:       codeInvalidChecksum,
	KindSignatureDoesNotMatch: codeSignatureDoesNotMatch,
	KindAccessDenied:          codeAccessDenied,
	KindMissingAuth:           codeMissingAuth,
	KindInvalidAuthFormat:     codeInvalidAuthFormat,
	KindInternal:              codeInternal,
}

var codeToKind = func() map[liberr.CodeError]Kind {
	m := make(map[liberr.CodeError]Kind, len(kindToCode))
	for k, c := range kindToCode {
		m[c] = k
	}
	return m
}()

func init() {
	liberr.RegisterIdFctMessage(codeNoSuchBucket, getMessage)
}

func getMessage(code liberr.CodeError) string {
	if k, ok := codeToKind[code]; ok {
		return k.String()
	}
	return ""
}

// New builds a liberr.Error carrying the given Kind, message and optional
// parent errors. The Kind never needs to be guessed back from a string:
// Of() recovers it from the error's code.
func New(kind Kind, message string, parent ...error) liberr.Error {
	code, ok := kindToCode[kind]
	if !ok {
		code = codeInternal
	}
	e := liberr.NewErrorTrace(code.Int(), message, "", 0, parent...)
	return e
}

// Of recovers the Kind a liberr.Error was constructed with. Returns
// KindNone if err is nil, and KindInternal if it was not built through New.
func Of(err liberr.Error) Kind {
	if err == nil {
		return KindNone
	}
	if k, ok := codeToKind[err.GetCode()]; ok {
		return k
	}
	return KindInternal
}
