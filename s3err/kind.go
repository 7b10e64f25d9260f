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

// Package s3err defines the S3-facing error vocabulary shared by every core
// package (sigv4, chunked, storage, multipart) and the gateway facade.
//
// A Kind never leaks which internal step failed (spec.md §7): callers
// surface a single Kind plus a human message, and the facade maps the Kind
// to an HTTP status and an S3-style error code string.
package s3err

// Kind classifies a failure the way the S3 REST API classifies it: by
// error code name, not by Go error chain.
type Kind uint8

const (
	KindNone Kind = iota
	KindNoSuchBucket
	KindNoSuchKey
	KindNoSuchUpload
	KindBucketAlreadyExists
	KindBucketNotEmpty
	KindInvalidBucketName
	KindInvalidArgument
	KindInvalidChecksum
	KindSignatureDoesNotMatch
	KindAccessDenied
	KindMissingAuth
	KindInvalidAuthFormat
	KindInternal
)

// String returns the S3 error-code name as it appears on the wire.
func (k Kind) String() string {
	switch k {
	case KindNoSuchBucket:
		return "NoSuchBucket"
	case KindNoSuchKey:
		return "NoSuchKey"
	case KindNoSuchUpload:
		return "NoSuchUpload"
	case KindBucketAlreadyExists:
		return "BucketAlreadyExists"
	case KindBucketNotEmpty:
		return "BucketNotEmpty"
	case KindInvalidBucketName:
		return "InvalidBucketName"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInvalidChecksum:
		return "InvalidChecksum"
	case KindSignatureDoesNotMatch:
		return "SignatureDoesNotMatch"
	case KindAccessDenied:
		return "AccessDenied"
	case KindMissingAuth:
		return "MissingAuth"
	case KindInvalidAuthFormat:
		return "InvalidAuthFormat"
	case KindInternal:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// HTTPStatus returns the HTTP status code the gateway facade must answer
// with for this Kind, per spec.md §7.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNoSuchBucket, KindNoSuchKey, KindNoSuchUpload:
		return 404
	case KindBucketAlreadyExists, KindBucketNotEmpty:
		return 409
	case KindInvalidBucketName, KindInvalidArgument, KindInvalidChecksum:
		return 400
	case KindSignatureDoesNotMatch, KindAccessDenied:
		return 403
	case KindMissingAuth, KindInvalidAuthFormat:
		return 401
	case KindNone:
		return 200
	default:
		return 500
	}
}
