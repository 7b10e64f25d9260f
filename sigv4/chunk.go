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

package sigv4

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	liberr "github.com/nabbar/golib/errors"

	"github.com/nabbar/lamina/s3err"
)

var emptyPayloadHash = hex.EncodeToString(func() []byte { h := sha256.Sum256(nil); return h[:] }())

// ChunkValidator HMAC-chains the per-chunk signatures of one
// STREAMING-AWS4-HMAC-SHA256-PAYLOAD body (spec.md §4.1, §9).
//
// It is seeded from the request's own (already-verified) signature and
// is stateful: each call to ValidateChunk both checks the chunk and
// advances the chain, so chunks must be validated strictly in the order
// they arrive. It is not safe for concurrent use; the chunked-body
// parser owns one instance for the lifetime of a single request body.
type ChunkValidator struct {
	signingKey        []byte
	amzDate           string
	credentialScope   string
	previousSignature string
}

// chunkStringToSign builds the StringToSign for one chunk (spec.md §4.1):
//
//	AWS4-HMAC-SHA256-PAYLOAD
//	<amzDate>
//	<credentialScope>
//	<previousSignature>
//	<hex(sha256(""))>
//	<hex(sha256(chunkData))>
func (c *ChunkValidator) chunkStringToSign(chunkData []byte) string {
	sum := sha256.Sum256(chunkData)
	return strings.Join([]string{
		"AWS4-HMAC-SHA256-PAYLOAD",
		c.amzDate,
		c.credentialScope,
		c.previousSignature,
		emptyPayloadHash,
		hex.EncodeToString(sum[:]),
	}, "\n")
}

// ValidateChunk recomputes the expected signature for chunkData against
// the chain's current previousSignature and compares it in constant time
// to claimedSignature. The server's own recomputed signature — never the
// client's claimed one — becomes the seed for the next chunk on success.
//
// On failure the chain is left unadvanced; the caller must abandon the
// upload (spec.md Invariant: no temp file survives a chunk-signature
// mismatch).
func (c *ChunkValidator) ValidateChunk(chunkData []byte, claimedSignature string) liberr.Error {
	expected := Sign(c.signingKey, c.chunkStringToSign(chunkData))
	if !constantTimeEqualHex(expected, claimedSignature) {
		return s3err.New(s3err.KindSignatureDoesNotMatch, "chunk signature mismatch")
	}
	c.previousSignature = expected
	return nil
}
