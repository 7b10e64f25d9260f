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
	"crypto/subtle"
	"regexp"
	"strconv"
	"strings"

	liberr "github.com/nabbar/golib/errors"

	"github.com/nabbar/lamina/s3err"
	"github.com/nabbar/lamina/types"
)

// StreamingPayloadHash is the literal x-amz-content-sha256 value that
// marks an AWS-chunked streaming upload (spec.md §4.1, §4.2).
const StreamingPayloadHash = "STREAMING-AWS4-HMAC-SHA256-PAYLOAD"

var authHeaderPattern = regexp.MustCompile(
	`^AWS4-HMAC-SHA256 Credential=([^/]+)/(\d{8})/([^/]+)/s3/aws4_request, ?SignedHeaders=([^,]+), ?Signature=([0-9a-fA-F]{64})$`,
)

// AuthInfo is the parsed content of an Authorization header.
type AuthInfo struct {
	AccessKeyID   string
	DateStamp     string
	Region        string
	SignedHeaders []string
	Signature     string
}

// ParseAuthorizationHeader parses the AWS4-HMAC-SHA256 Authorization
// header. It returns KindInvalidAuthFormat if the header does not match
// the expected shape, and KindMissingAuth if it is empty.
func ParseAuthorizationHeader(header string) (AuthInfo, liberr.Error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return AuthInfo{}, s3err.New(s3err.KindMissingAuth, "missing Authorization header")
	}
	if !strings.HasPrefix(header, "AWS4-HMAC-SHA256 ") {
		return AuthInfo{}, s3err.New(s3err.KindInvalidAuthFormat, "unsupported authentication method")
	}
	m := authHeaderPattern.FindStringSubmatch(header)
	if m == nil {
		return AuthInfo{}, s3err.New(s3err.KindInvalidAuthFormat, "invalid authorization header format")
	}
	return AuthInfo{
		AccessKeyID:   m[1],
		DateStamp:     m[2],
		Region:        m[3],
		SignedHeaders: strings.Split(m[4], ";"),
		Signature:     strings.ToLower(m[5]),
	}, nil
}

// UserLookup resolves an access key to its secret and bucket permissions.
// Implemented by the config-backed user store; kept as an interface so
// sigv4 never depends on the config package.
type UserLookup interface {
	Lookup(accessKeyID string) (types.User, bool)
}

// RequestInfo is everything ValidateRequest needs from an inbound HTTP
// request. Callers (the gateway facade) are responsible for extracting
// these fields from the real *http.Request.
type RequestInfo struct {
	Method        string
	URIPath       string
	Query         []QueryParam
	Authorization string
	AmzDate       string
	ContentSha256 string
	HeaderValues  map[string]string
}

// Validator verifies request-level SigV4 signatures and, for streaming
// uploads, hands back a seeded ChunkValidator.
type Validator struct {
	Users UserLookup
}

// NewValidator builds a Validator backed by the given user lookup.
func NewValidator(users UserLookup) *Validator {
	return &Validator{Users: users}
}

// ValidateRequest verifies the Authorization header against a canonical
// request built from req, and returns the resolved User. If the request
// is a streaming (AWS-chunked) upload, it also returns a ChunkValidator
// seeded from the request's own signature, ready to validate each chunk
// in order (spec.md §4.1, §4.2).
//
// The signature is always recomputed server-side and compared in
// constant time; the client's claimed signature is never trusted as a
// starting point for anything beyond this comparison.
func (v *Validator) ValidateRequest(req RequestInfo) (types.User, *ChunkValidator, liberr.Error) {
	auth, err := ParseAuthorizationHeader(req.Authorization)
	if err != nil {
		return types.User{}, nil, err
	}
	if strings.TrimSpace(req.AmzDate) == "" {
		return types.User{}, nil, s3err.New(s3err.KindInvalidAuthFormat, "missing x-amz-date header")
	}

	user, ok := v.Users.Lookup(auth.AccessKeyID)
	if !ok {
		return types.User{}, nil, s3err.New(s3err.KindSignatureDoesNotMatch, "invalid access key")
	}

	canonicalRequest, signedHeaders := BuildCanonicalRequest(CanonicalRequestInput{
		Method:        req.Method,
		URIPath:       req.URIPath,
		Query:         req.Query,
		SignedHeaders: auth.SignedHeaders,
		HeaderValues:  req.HeaderValues,
		PayloadHash:   req.ContentSha256,
	})
	_ = signedHeaders

	sts := StringToSign(req.AmzDate, auth.DateStamp, auth.Region, HashCanonicalRequest(canonicalRequest))
	signingKey := DeriveSigningKey(user.SecretAccessKey, auth.DateStamp, auth.Region)
	expected := Sign(signingKey, sts)

	if !constantTimeEqualHex(expected, auth.Signature) {
		return types.User{}, nil, s3err.New(s3err.KindSignatureDoesNotMatch, "invalid signature")
	}

	if req.ContentSha256 != StreamingPayloadHash {
		return user, nil, nil
	}

	cv := &ChunkValidator{
		signingKey:        signingKey,
		amzDate:           req.AmzDate,
		credentialScope:   CredentialScope(auth.DateStamp, auth.Region),
		previousSignature: auth.Signature,
	}
	return user, cv, nil
}

// CheckPermission reports whether user is allowed to perform verb
// ("read"/"write"/"delete"/"list", spec.md §6) on bucketName.
// Permission names are compared case-insensitively (spec.md §4.1), so a
// config entry written as "Read" or "READ" still matches "read".
func (v *Validator) CheckPermission(user types.User, bucketName, verb string) liberr.Error {
	for _, bp := range user.BucketPermission {
		if bp.BucketName != bucketName && bp.BucketName != "*" {
			continue
		}
		for _, p := range bp.Permissions {
			if p == "*" || strings.EqualFold(p, verb) {
				return nil
			}
		}
	}
	return s3err.New(s3err.KindAccessDenied, "access denied")
}

func constantTimeEqualHex(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// parseDecodedContentLength parses the x-amz-decoded-content-length
// header value carried by streaming uploads.
func parseDecodedContentLength(v string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
