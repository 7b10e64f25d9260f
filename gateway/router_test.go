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

package gateway_test

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/lamina/gateway"
	"github.com/nabbar/lamina/multipart"
	"github.com/nabbar/lamina/sigv4"
	"github.com/nabbar/lamina/storage"
	"github.com/nabbar/lamina/storage/lock"
	"github.com/nabbar/lamina/types"
)

type emptyUserLookup struct{}

func (emptyUserLookup) Lookup(string) (types.User, bool) { return types.User{}, false }

type singleUserLookup struct{ user types.User }

func (s singleUserLookup) Lookup(accessKeyID string) (types.User, bool) {
	if accessKeyID != s.user.AccessKeyID {
		return types.User{}, false
	}
	return s.user, true
}

// signedRequest builds an httptest.Request for method/path carrying a
// valid SigV4 Authorization header for user, the same construction
// sigv4_test.go's buildAndSign uses, adapted to a real *http.Request
// since the gateway's middleware reads headers off the wire rather than
// a pre-built sigv4.RequestInfo.
func signedRequest(user types.User, method, path string) *http.Request {
	const dateStamp = "20240102"
	const region = "us-east-1"
	const amzDate = "20240102T030405Z"
	const payloadHash = "UNSIGNED-PAYLOAD"

	headers := map[string]string{
		"host":                  "lamina.local",
		"x-amz-date":            amzDate,
		"x-amz-content-sha256":  payloadHash,
	}
	order := []string{"host", "x-amz-content-sha256", "x-amz-date"}

	cr, _ := sigv4.BuildCanonicalRequest(sigv4.CanonicalRequestInput{
		Method:        method,
		URIPath:       path,
		SignedHeaders: order,
		HeaderValues:  headers,
		PayloadHash:   payloadHash,
	})
	sts := sigv4.StringToSign(amzDate, dateStamp, region, sigv4.HashCanonicalRequest(cr))
	key := sigv4.DeriveSigningKey(user.SecretAccessKey, dateStamp, region)
	signature := sigv4.Sign(key, sts)
	auth := "AWS4-HMAC-SHA256 Credential=" + user.AccessKeyID + "/" + dateStamp + "/" + region + "/s3/aws4_request, " +
		"SignedHeaders=" + strings.Join(order, ";") + ", Signature=" + signature

	req := httptest.NewRequest(method, path, nil)
	req.Host = headers["host"]
	req.Header.Set("x-amz-date", amzDate)
	req.Header.Set("x-amz-content-sha256", payloadHash)
	req.Header.Set("Authorization", auth)
	return req
}

func newTestServer(dir string) (*gateway.Server, *storage.Engine) {
	cfg := storage.Config{
		DataDirectory:     filepath.Join(dir, "data"),
		MetadataDirectory: filepath.Join(dir, "meta"),
		MetadataMode:      storage.MetadataModeSeparateDirectory,
	}
	locks := lock.NewInMemoryManager(context.Background())
	eng, err := storage.NewEngine(cfg, locks)
	Expect(err).To(BeNil())

	mp := multipart.New(eng.MultipartRoot(), eng, locks)

	return &gateway.Server{Engine: eng, Multipart: mp}, eng
}

var _ = Describe("gateway router", func() {
	var (
		dir string
		srv *gateway.Server
		eng *storage.Engine
		r   http.Handler
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		srv, eng = newTestServer(dir)
		r = gateway.NewRouter(srv)
		Expect(eng.CreateBucket("b1", types.BucketGeneralPurpose, "")).To(Succeed())
	})

	It("answers /health without requiring authentication", func() {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("serves Prometheus metrics on /metrics", func() {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("scenario 1: simple PUT then GET round-trips the body and ETag", func() {
		put := httptest.NewRequest(http.MethodPut, "/b1/hello.txt", strings.NewReader("Hello"))
		put.Header.Set("Content-Type", "text/plain")
		putRec := httptest.NewRecorder()
		r.ServeHTTP(putRec, put)
		Expect(putRec.Code).To(Equal(http.StatusOK))
		Expect(putRec.Header().Get("ETag")).To(Equal(`"f7ff9e8b7bb2e09b70935a5d785e0cc5d9d0abf0"`))

		get := httptest.NewRequest(http.MethodGet, "/b1/hello.txt", nil)
		getRec := httptest.NewRecorder()
		r.ServeHTTP(getRec, get)
		Expect(getRec.Code).To(Equal(http.StatusOK))
		Expect(getRec.Body.String()).To(Equal("Hello"))
		Expect(getRec.Header().Get("Content-Type")).To(Equal("text/plain"))
	})

	It("scenario 3: delimiter listing collapses common prefixes", func() {
		for _, key := range []string{
			"photos/2021/jan/pic.jpg",
			"photos/2021/feb/pic.jpg",
			"photos/2022/mar/pic.jpg",
			"photos/readme.txt",
		} {
			put := httptest.NewRequest(http.MethodPut, "/b1/"+key, strings.NewReader("x"))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, put)
			Expect(rec.Code).To(Equal(http.StatusOK))
		}

		get := httptest.NewRequest(http.MethodGet, "/b1?prefix=photos/&delimiter=/", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, get)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var result struct {
			Contents       []struct{ Key string } `xml:"Contents"`
			CommonPrefixes []struct{ Prefix string } `xml:"CommonPrefixes"`
		}
		Expect(xml.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
		Expect(result.Contents).To(HaveLen(1))
		Expect(result.Contents[0].Key).To(Equal("photos/readme.txt"))
		Expect(result.CommonPrefixes).To(HaveLen(2))
	})

	It("scenario 5: multipart initiate, upload two parts, complete", func() {
		initiate := httptest.NewRequest(http.MethodPost, "/b1/obj.bin?uploads", nil)
		initRec := httptest.NewRecorder()
		r.ServeHTTP(initRec, initiate)
		Expect(initRec.Code).To(Equal(http.StatusOK))

		var initRes struct {
			UploadID string `xml:"UploadId"`
		}
		Expect(xml.Unmarshal(initRec.Body.Bytes(), &initRes)).To(Succeed())
		Expect(initRes.UploadID).NotTo(BeEmpty())

		part1 := httptest.NewRequest(http.MethodPut, "/b1/obj.bin?partNumber=1&uploadId="+initRes.UploadID, strings.NewReader("Part 1 "))
		part1Rec := httptest.NewRecorder()
		r.ServeHTTP(part1Rec, part1)
		Expect(part1Rec.Code).To(Equal(http.StatusOK))
		etag1 := strings.Trim(part1Rec.Header().Get("ETag"), `"`)

		part2 := httptest.NewRequest(http.MethodPut, "/b1/obj.bin?partNumber=2&uploadId="+initRes.UploadID, strings.NewReader("Part 2"))
		part2Rec := httptest.NewRecorder()
		r.ServeHTTP(part2Rec, part2)
		Expect(part2Rec.Code).To(Equal(http.StatusOK))
		etag2 := strings.Trim(part2Rec.Header().Get("ETag"), `"`)

		body := `<CompleteMultipartUpload><Part><PartNumber>1</PartNumber><ETag>` + etag1 +
			`</ETag></Part><Part><PartNumber>2</PartNumber><ETag>` + etag2 + `</ETag></Part></CompleteMultipartUpload>`
		complete := httptest.NewRequest(http.MethodPost, "/b1/obj.bin?uploadId="+initRes.UploadID, strings.NewReader(body))
		completeRec := httptest.NewRecorder()
		r.ServeHTTP(completeRec, complete)
		Expect(completeRec.Code).To(Equal(http.StatusOK))

		get := httptest.NewRequest(http.MethodGet, "/b1/obj.bin", nil)
		getRec := httptest.NewRecorder()
		r.ServeHTTP(getRec, get)
		Expect(getRec.Code).To(Equal(http.StatusOK))
		Expect(getRec.Body.String()).To(Equal("Part 1 Part 2"))

		list := httptest.NewRequest(http.MethodGet, "/b1?uploads", nil)
		listRec := httptest.NewRecorder()
		r.ServeHTTP(listRec, list)
		Expect(listRec.Code).To(Equal(http.StatusOK))
		Expect(listRec.Body.String()).NotTo(ContainSubstring(initRes.UploadID))
	})

	It("maps NoSuchKey to a 404 XML error document", func() {
		req := httptest.NewRequest(http.MethodGet, "/b1/missing.txt", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Body.String()).To(ContainSubstring("NoSuchKey"))
	})

	It("rejects a request without an Authorization header when authentication is enabled", func() {
		srv.Validator = sigv4.NewValidator(emptyUserLookup{})
		authed := gateway.NewRouter(srv)

		req := httptest.NewRequest(http.MethodGet, "/b1/hello.txt", nil)
		rec := httptest.NewRecorder()
		authed.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(rec.Body.String()).To(ContainSubstring("MissingAuth"))
	})

	It("allows GET /{bucket} (LIST) for a user granted only the list permission", func() {
		user := types.User{
			AccessKeyID:      "AKIDLISTONLY",
			SecretAccessKey:  "listOnlySecretKeyThatIsLongEnough00",
			BucketPermission: []types.BucketPermission{{BucketName: "b1", Permissions: []string{"list"}}},
		}
		srv.Validator = sigv4.NewValidator(singleUserLookup{user})
		authed := gateway.NewRouter(srv)

		req := signedRequest(user, http.MethodGet, "/b1")
		rec := httptest.NewRecorder()
		authed.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("denies GET /{bucket} (LIST) for a user granted only the read permission", func() {
		user := types.User{
			AccessKeyID:      "AKIDREADONLY",
			SecretAccessKey:  "readOnlySecretKeyThatIsLongEnough00",
			BucketPermission: []types.BucketPermission{{BucketName: "b1", Permissions: []string{"read"}}},
		}
		srv.Validator = sigv4.NewValidator(singleUserLookup{user})
		authed := gateway.NewRouter(srv)

		req := signedRequest(user, http.MethodGet, "/b1")
		rec := httptest.NewRecorder()
		authed.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Body.String()).To(ContainSubstring("AccessDenied"))
	})

	It("still allows GET on an object key for a user granted only the read permission", func() {
		put := httptest.NewRequest(http.MethodPut, "/b1/hello.txt", strings.NewReader("Hello"))
		putRec := httptest.NewRecorder()
		r.ServeHTTP(putRec, put)
		Expect(putRec.Code).To(Equal(http.StatusOK))

		user := types.User{
			AccessKeyID:      "AKIDREADONLY2",
			SecretAccessKey:  "readOnlySecretKeyThatIsLongEnough01",
			BucketPermission: []types.BucketPermission{{BucketName: "b1", Permissions: []string{"read"}}},
		}
		srv.Validator = sigv4.NewValidator(singleUserLookup{user})
		authed := gateway.NewRouter(srv)

		req := signedRequest(user, http.MethodGet, "/b1/hello.txt")
		rec := httptest.NewRecorder()
		authed.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})
