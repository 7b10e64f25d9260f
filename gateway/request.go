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
	"sort"
	"strings"

	ginsdk "github.com/gin-gonic/gin"

	"github.com/nabbar/lamina/sigv4"
)

// recognizedHeaders are the request headers ever folded into the
// canonical request (spec.md §6). sigv4 only hashes what the client
// actually signed, but the gateway must be able to hand over any of
// these by name.
var recognizedHeaders = []string{
	"x-amz-date",
	"x-amz-content-sha256",
	"x-amz-decoded-content-length",
	"content-md5",
	"content-length",
	"content-type",
	"host",
}

// buildRequestInfo reconstructs a sigv4.RequestInfo from the inbound
// gin request, in the shape BuildCanonicalRequest expects: a flat,
// already-split query parameter list and a lower-cased header map.
func buildRequestInfo(c *ginsdk.Context) sigv4.RequestInfo {
	req := c.Request

	var query []sigv4.QueryParam
	for name, values := range req.URL.Query() {
		for _, v := range values {
			query = append(query, sigv4.QueryParam{Name: name, Value: v})
		}
	}
	sort.Slice(query, func(i, j int) bool {
		if query[i].Name != query[j].Name {
			return query[i].Name < query[j].Name
		}
		return query[i].Value < query[j].Value
	})

	headerValues := make(map[string]string, len(recognizedHeaders))
	for _, name := range recognizedHeaders {
		if name == "host" {
			headerValues[name] = req.Host
			continue
		}
		if v := req.Header.Get(name); v != "" {
			headerValues[name] = v
		}
	}
	for _, name := range amzMetaHeaderNames(req.Header) {
		headerValues[name] = req.Header.Get(name)
	}

	return sigv4.RequestInfo{
		Method:        req.Method,
		URIPath:       req.URL.Path,
		Query:         query,
		Authorization: req.Header.Get("Authorization"),
		AmzDate:       req.Header.Get("x-amz-date"),
		ContentSha256: req.Header.Get("x-amz-content-sha256"),
		HeaderValues:  headerValues,
	}
}

// amzMetaHeaderNames returns the lower-cased names of every
// x-amz-meta-* and x-amz-checksum-* header present on the request
// (spec.md §6): these are user-supplied and cannot be enumerated
// statically the way recognizedHeaders is.
func amzMetaHeaderNames(h map[string][]string) []string {
	var names []string
	for name := range h {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "x-amz-meta-") || strings.HasPrefix(lower, "x-amz-checksum-") {
			names = append(names, lower)
		}
	}
	return names
}

// userMetadata extracts the x-amz-meta-* headers into the plain
// string map ObjectMeta.Metadata stores (spec.md §3, §6).
func userMetadata(c *ginsdk.Context) map[string]string {
	var meta map[string]string
	for name, values := range c.Request.Header {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, "x-amz-meta-") || len(values) == 0 {
			continue
		}
		if meta == nil {
			meta = make(map[string]string)
		}
		meta[strings.TrimPrefix(lower, "x-amz-meta-")] = values[0]
	}
	return meta
}
