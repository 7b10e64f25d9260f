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
	"bufio"
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	ginsdk "github.com/gin-gonic/gin"

	"github.com/nabbar/lamina/chunked"
	"github.com/nabbar/lamina/s3err"
	"github.com/nabbar/lamina/sigv4"
	"github.com/nabbar/lamina/storage"
	"github.com/nabbar/lamina/types"
)

// objectKey strips the leading slash gin's */key wildcard always
// includes.
func objectKey(c *ginsdk.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}

// putObjectOrPart handles PUT /{bucket}/{key}, branching on the
// partNumber/uploadId query pair (spec.md §6).
func (s *Server) putObjectOrPart(c *ginsdk.Context) {
	bucket := c.Param("bucket")
	key := objectKey(c)

	if uploadID := c.Query("uploadId"); uploadID != "" {
		s.uploadPart(c, bucket, key, uploadID)
		return
	}
	s.putObject(c, bucket, key)
}

func (s *Server) putObject(c *ginsdk.Context, bucket, key string) {
	body, checksumReq, ok := s.decodedBody(c)
	if !ok {
		return
	}

	meta, err := s.Engine.PutObject(c.Request.Context(), bucket, key, body, c.GetHeader("Content-Type"), userMetadata(c), checksumReq)
	if err != nil {
		writeError(c, err)
		return
	}

	if mismatch := declaredChecksumMismatch(c, meta.Checksums); mismatch != "" {
		_ = s.Engine.DeleteObject(bucket, key)
		writeError(c, s3err.New(s3err.KindInvalidChecksum, "checksum mismatch: "+mismatch))
		return
	}

	c.Header("ETag", `"`+meta.ETag+`"`)
	c.Status(http.StatusOK)
}

// declaredChecksumMismatch compares every x-amz-checksum-* header the
// client declared against the value PutObject actually computed,
// returning the name of the first algorithm that disagrees (spec.md
// §6, §7: "client checksum mismatch" -> InvalidChecksum). A non-chunked
// PUT has no earlier point to catch this, since the checksum can only
// be known once the full body has been hashed; the object is removed
// again immediately so a mismatched write is never left in place.
func declaredChecksumMismatch(c *ginsdk.Context, got types.Checksums) string {
	for _, check := range []struct {
		header string
		name   string
		want   string
	}{
		{"x-amz-checksum-crc32", "crc32", got.CRC32},
		{"x-amz-checksum-crc32c", "crc32c", got.CRC32C},
		{"x-amz-checksum-crc64nvme", "crc64nvme", got.CRC64NVME},
		{"x-amz-checksum-sha1", "sha1", got.SHA1},
		{"x-amz-checksum-sha256", "sha256", got.SHA256},
	} {
		if declared := c.GetHeader(check.header); declared != "" && declared != check.want {
			return check.name
		}
	}
	return ""
}

func (s *Server) uploadPart(c *ginsdk.Context, bucket, key, uploadID string) {
	partNumber, pErr := strconv.Atoi(c.Query("partNumber"))
	if pErr != nil || partNumber < 1 {
		writeError(c, s3err.New(s3err.KindInvalidArgument, "invalid or missing partNumber"))
		return
	}

	body, _, ok := s.decodedBody(c)
	if !ok {
		return
	}

	part, err := s.Multipart.UploadPart(c.Request.Context(), uploadID, bucket, key, partNumber, body)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("ETag", `"`+part.ETag+`"`)
	c.Status(http.StatusOK)
}

// decodedBody returns the request body ready for the storage/multipart
// write path: for a plain request it is the body as-is; for an
// AWS-chunked streaming request (spec.md §4.1, §4.2) it is the fully
// decoded and signature-validated payload. On any chunk failure it
// writes the error response itself and returns ok=false; no temp file
// is ever created for a body that fails to decode (spec.md §7).
func (s *Server) decodedBody(c *ginsdk.Context) (*bytes.Reader, storage.ChecksumRequest, bool) {
	checksumReq := checksumRequestFrom(c)

	if c.GetHeader("x-amz-content-sha256") != sigv4.StreamingPayloadHash {
		data, rErr := readAll(c)
		if rErr != nil {
			writeError(c, errBadRequestBody(rErr))
			return nil, checksumReq, false
		}
		return bytes.NewReader(data), checksumReq, true
	}

	cvAny, _ := c.Get("lamina.chunkValidator")
	cv, _ := cvAny.(*sigv4.ChunkValidator)
	if cv == nil {
		writeError(c, s3err.New(s3err.KindInvalidArgument, "streaming payload without a seeded chunk validator"))
		return nil, checksumReq, false
	}

	var decoded bytes.Buffer
	result := chunked.Decode(c.Request.Context(), bufio.NewReader(c.Request.Body), &decoded, cv, chunkedChecksumRequest(c))
	if !result.Success {
		writeError(c, s3err.New(result.ErrorKind, result.ErrorMessage))
		return nil, checksumReq, false
	}
	return bytes.NewReader(decoded.Bytes()), checksumReq, true
}

func readAll(c *ginsdk.Context) ([]byte, error) {
	buf := new(bytes.Buffer)
	_, err := buf.ReadFrom(c.Request.Body)
	return buf.Bytes(), err
}

// checksumRequestFrom inspects the x-amz-checksum-* headers (spec.md
// §6) to decide which additional digests PutObject must compute.
func checksumRequestFrom(c *ginsdk.Context) storage.ChecksumRequest {
	return storage.ChecksumRequest{
		CRC32:     c.GetHeader("x-amz-checksum-crc32") != "",
		CRC32C:    c.GetHeader("x-amz-checksum-crc32c") != "",
		CRC64NVME: c.GetHeader("x-amz-checksum-crc64nvme") != "",
		SHA1:      c.GetHeader("x-amz-checksum-sha1") != "",
		SHA256:    c.GetHeader("x-amz-checksum-sha256") != "",
	}
}

// chunkedChecksumRequest picks the single declared checksum algorithm
// (if any) chunked.Decode should verify inline, per whichever
// x-amz-checksum-* header the client sent.
func chunkedChecksumRequest(c *ginsdk.Context) chunked.ChecksumRequest {
	for _, algo := range []struct {
		header string
		name   chunked.ChecksumAlgorithm
	}{
		{"x-amz-checksum-crc32", chunked.ChecksumCRC32},
		{"x-amz-checksum-crc32c", chunked.ChecksumCRC32C},
		{"x-amz-checksum-crc64nvme", chunked.ChecksumCRC64NVME},
		{"x-amz-checksum-sha1", chunked.ChecksumSHA1},
		{"x-amz-checksum-sha256", chunked.ChecksumSHA256},
	} {
		if v := c.GetHeader(algo.header); v != "" {
			return chunked.ChecksumRequest{Algorithm: algo.name, Expected: v}
		}
	}
	return chunked.ChecksumRequest{}
}

// getObject handles GET /{bucket}/{key}.
func (s *Server) getObject(c *ginsdk.Context) {
	bucket := c.Param("bucket")
	key := objectKey(c)

	body, meta, err := s.Engine.GetObject(bucket, key)
	if err != nil {
		writeError(c, err)
		return
	}
	defer body.Close()

	setObjectHeaders(c, meta)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}

// headObject handles HEAD /{bucket}/{key}.
func (s *Server) headObject(c *ginsdk.Context) {
	bucket := c.Param("bucket")
	key := objectKey(c)

	meta, found, err := s.Engine.HeadObject(bucket, key)
	if err != nil {
		writeError(c, err)
		return
	}
	if !found {
		writeError(c, s3err.New(s3err.KindNoSuchKey, "no such key: "+key))
		return
	}
	setObjectHeaders(c, meta)
	c.Status(http.StatusOK)
}

func setObjectHeaders(c *ginsdk.Context, meta types.ObjectMeta) {
	c.Header("ETag", `"`+meta.ETag+`"`)
	c.Header("Content-Type", meta.ContentType)
	c.Header("Content-Length", strconv.FormatInt(meta.Size, 10))
	c.Header("Last-Modified", meta.LastModified.UTC().Format(http.TimeFormat))
	for k, v := range meta.Metadata {
		c.Header("x-amz-meta-"+k, v)
	}
	setChecksumHeaders(c, meta.Checksums)
}

func setChecksumHeaders(c *ginsdk.Context, sums types.Checksums) {
	if sums.CRC32 != "" {
		c.Header("x-amz-checksum-crc32", sums.CRC32)
	}
	if sums.CRC32C != "" {
		c.Header("x-amz-checksum-crc32c", sums.CRC32C)
	}
	if sums.CRC64NVME != "" {
		c.Header("x-amz-checksum-crc64nvme", sums.CRC64NVME)
	}
	if sums.SHA1 != "" {
		c.Header("x-amz-checksum-sha1", sums.SHA1)
	}
	if sums.SHA256 != "" {
		c.Header("x-amz-checksum-sha256", sums.SHA256)
	}
}

// deleteObject handles DELETE /{bucket}/{key}, branching to Abort when
// uploadId is present (spec.md §6).
func (s *Server) deleteObject(c *ginsdk.Context) {
	bucket := c.Param("bucket")
	key := objectKey(c)

	if uploadID := c.Query("uploadId"); uploadID != "" {
		if err := s.Multipart.Abort(uploadID, bucket, key); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}

	if err := s.Engine.DeleteObject(bucket, key); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// postObject handles POST /{bucket}/{key}: initiate multipart (uploads
// query present) or complete multipart (uploadId query present).
func (s *Server) postObject(c *ginsdk.Context) {
	bucket := c.Param("bucket")
	key := objectKey(c)

	if _, present := c.GetQuery("uploads"); present {
		s.initiateMultipart(c, bucket, key)
		return
	}
	if uploadID := c.Query("uploadId"); uploadID != "" {
		s.completeMultipart(c, bucket, key, uploadID)
		return
	}
	writeError(c, s3err.New(s3err.KindInvalidArgument, "unsupported POST request"))
}

func (s *Server) initiateMultipart(c *ginsdk.Context, bucket, key string) {
	uploadID, err := s.Multipart.Initiate(bucket, key, c.GetHeader("Content-Type"), userMetadata(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.XML(http.StatusOK, initiateMultipartUploadResult{Bucket: bucket, Key: key, UploadID: uploadID})
}

func (s *Server) completeMultipart(c *ginsdk.Context, bucket, key, uploadID string) {
	var reqBody completeMultipartUploadRequest
	if bErr := c.ShouldBindXML(&reqBody); bErr != nil {
		writeError(c, s3err.New(s3err.KindInvalidArgument, "malformed CompleteMultipartUpload body"))
		return
	}

	parts := make([]types.CompletedPart, 0, len(reqBody.Parts))
	for _, p := range reqBody.Parts {
		parts = append(parts, types.CompletedPart{PartNumber: p.PartNumber, ETag: strings.Trim(p.ETag, `"`)})
	}

	meta, err := s.Multipart.Complete(c.Request.Context(), uploadID, bucket, key, parts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.XML(http.StatusOK, completeMultipartUploadResult{Bucket: bucket, Key: key, ETag: meta.ETag})
}
