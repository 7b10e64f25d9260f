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

// Package sigv4 implements AWS Signature Version 4 request verification and
// the per-chunk HMAC chaining used by STREAMING-AWS4-HMAC-SHA256-PAYLOAD
// uploads (spec.md §4.1).
//
// Two independent checks live here:
//   - Validator.ValidateRequest verifies the request-level signature in the
//     Authorization header against a canonical request built from the
//     method, path, query and signed headers.
//   - ChunkValidator (returned by ValidateRequest for streaming uploads)
//     HMAC-chains every chunk signature against the previous one, seeded
//     from the request's own signature.
//
// Neither type ever raises a panic; every failure is a s3err.Kind carried
// on a liberr.Error so the gateway facade can answer with the single
// SignatureDoesNotMatch / AccessDenied / MissingAuth code the spec allows,
// without leaking which internal step failed.
package sigv4
