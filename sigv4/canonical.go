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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

const terminationString = "aws4_request"
const serviceName = "s3"

// QueryParam is one raw (undecoded-by-us, already-split) query parameter
// as it appeared on the wire.
type QueryParam struct {
	Name  string
	Value string
}

// CanonicalRequestInput is everything BuildCanonicalRequest needs to
// reconstruct the exact bytes the client signed.
type CanonicalRequestInput struct {
	Method        string
	URIPath       string
	Query         []QueryParam
	SignedHeaders []string
	HeaderValues  map[string]string
	PayloadHash   string
}

// uriEncode percent-encodes a path segment per the SigV4 rules: unreserved
// characters (RFC 3986 ALPHA / DIGIT / "-._~") pass through unescaped,
// everything else is %XX upper-case hex. When encodeSlash is false, "/" is
// also passed through — used for the URI path, never for query components.
func uriEncode(s string, encodeSlash bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		case c == '/' && !encodeSlash:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// CanonicalURI builds the CanonicalURI component: each path segment
// percent-encoded independently, slashes preserved. An empty path
// canonicalizes to "/".
func CanonicalURI(path string) string {
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = uriEncode(seg, true)
	}
	out := strings.Join(segments, "/")
	if !strings.HasPrefix(out, "/") {
		out = "/" + out
	}
	return out
}

// CanonicalQuery builds the CanonicalQueryString component: parameters
// sorted by encoded name (then encoded value) in byte order, percent
// encoded, joined with "&"; a value-less parameter emits "name=".
func CanonicalQuery(params []QueryParam) string {
	if len(params) == 0 {
		return ""
	}
	encoded := make([]string, 0, len(params))
	for _, p := range params {
		encoded = append(encoded, uriEncode(p.Name, true)+"="+uriEncode(p.Value, true))
	}
	sort.Strings(encoded)
	return strings.Join(encoded, "&")
}

// canonicalHeaders builds the CanonicalHeaders component (trimmed,
// lower-cased "name:value\n" lines in signed-header order) and the
// SignedHeaders component ("name;name;...").
func canonicalHeaders(signed []string, values map[string]string) (headers, signedList string) {
	names := make([]string, len(signed))
	for i, n := range signed {
		names[i] = strings.ToLower(strings.TrimSpace(n))
	}
	sort.Strings(names)

	var b strings.Builder
	for _, n := range names {
		v := values[n]
		v = strings.Join(strings.Fields(strings.TrimSpace(v)), " ")
		b.WriteString(n)
		b.WriteByte(':')
		b.WriteString(v)
		b.WriteByte('\n')
	}
	return b.String(), strings.Join(names, ";")
}

// BuildCanonicalRequest assembles the canonical request and returns it
// alongside the ";"-joined SignedHeaders string (spec.md §4.1).
func BuildCanonicalRequest(in CanonicalRequestInput) (canonicalRequest, signedHeaders string) {
	headers, signedList := canonicalHeaders(in.SignedHeaders, in.HeaderValues)
	canonicalRequest = strings.Join([]string{
		strings.ToUpper(in.Method),
		CanonicalURI(in.URIPath),
		CanonicalQuery(in.Query),
		headers,
		signedList,
		in.PayloadHash,
	}, "\n")
	return canonicalRequest, signedList
}

// HashCanonicalRequest returns the lower-case hex SHA-256 of a canonical
// request, as used in the StringToSign.
func HashCanonicalRequest(canonicalRequest string) string {
	sum := sha256.Sum256([]byte(canonicalRequest))
	return hex.EncodeToString(sum[:])
}

// CredentialScope builds "<date>/<region>/s3/aws4_request".
func CredentialScope(dateStamp, region string) string {
	return dateStamp + "/" + region + "/" + serviceName + "/" + terminationString
}

// StringToSign builds the SigV4 StringToSign for a request-level
// signature: algorithm, amzDate, credential scope, canonical-request hash.
func StringToSign(amzDate, dateStamp, region, canonicalRequestHash string) string {
	return strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		CredentialScope(dateStamp, region),
		canonicalRequestHash,
	}, "\n")
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// DeriveSigningKey runs the AWS4 HMAC chain:
// HMAC(HMAC(HMAC(HMAC("AWS4"+secret, date), region), "s3"), "aws4_request").
func DeriveSigningKey(secretAccessKey, dateStamp, region string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretAccessKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(serviceName))
	return hmacSHA256(kService, []byte(terminationString))
}

// Sign computes the lower-case hex SigV4 signature of stringToSign under
// signingKey.
func Sign(signingKey []byte, stringToSign string) string {
	return hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))
}
