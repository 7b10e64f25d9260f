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
	"net/http"
	"strconv"
	"time"

	ginsdk "github.com/gin-gonic/gin"

	"github.com/nabbar/lamina/s3err"
	"github.com/nabbar/lamina/storage"
	"github.com/nabbar/lamina/types"
)

// createBucket handles PUT /{bucket} (spec.md §6). Lamina has no
// region concept beyond the us-east-1 convention (§6's ?location
// response), so every bucket is created with an empty region. A
// CreateBucketConfiguration request body is not read.
func (s *Server) createBucket(c *ginsdk.Context) {
	bucket := c.Param("bucket")

	bucketType := types.BucketGeneralPurpose
	if c.GetHeader("x-amz-bucket-type") == "Directory" {
		bucketType = types.BucketDirectory
	}

	if err := s.Engine.CreateBucket(bucket, bucketType, ""); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// headBucket handles HEAD /{bucket}.
func (s *Server) headBucket(c *ginsdk.Context) {
	bucket := c.Param("bucket")

	_, found, err := s.Engine.HeadBucket(bucket)
	if err != nil {
		writeError(c, err)
		return
	}
	if !found {
		writeError(c, s3err.New(s3err.KindNoSuchBucket, "no such bucket: "+bucket))
		return
	}
	c.Status(http.StatusOK)
}

// deleteBucket handles DELETE /{bucket}.
func (s *Server) deleteBucket(c *ginsdk.Context) {
	bucket := c.Param("bucket")

	if err := s.Engine.DeleteBucket(bucket, false); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// getBucket handles GET /{bucket}, branching on the ?location and
// ?uploads query markers (spec.md §6); absent both, it lists objects.
func (s *Server) getBucket(c *ginsdk.Context) {
	bucket := c.Param("bucket")

	if _, present := c.GetQuery("location"); present {
		c.XML(http.StatusOK, locationConstraint{})
		return
	}
	if _, present := c.GetQuery("uploads"); present {
		s.listUploads(c, bucket)
		return
	}
	s.listObjects(c, bucket)
}

func (s *Server) listUploads(c *ginsdk.Context, bucket string) {
	uploads, err := s.Multipart.ListUploads(bucket)
	if err != nil {
		writeError(c, err)
		return
	}

	res := listMultipartUploadsResult{Bucket: bucket}
	for _, u := range uploads {
		res.Upload = append(res.Upload, uploadEntry{
			Key:       u.Key,
			UploadID:  u.UploadID,
			Initiated: u.Initiated.UTC().Format(time.RFC3339),
		})
	}
	c.XML(http.StatusOK, res)
}

func (s *Server) listObjects(c *ginsdk.Context, bucket string) {
	if enc := c.Query("encoding-type"); enc != "" && enc != "url" {
		writeError(c, s3err.New(s3err.KindInvalidArgument, "unsupported encoding-type: "+enc))
		return
	}

	bkt, found, err := s.Engine.HeadBucket(bucket)
	if err != nil {
		writeError(c, err)
		return
	}
	if !found {
		writeError(c, s3err.New(s3err.KindNoSuchBucket, "no such bucket: "+bucket))
		return
	}

	in := storage.ListInput{
		BucketType: bkt.Type,
		Prefix:     c.Query("prefix"),
		Delimiter:  c.Query("delimiter"),
		StartAfter: startAfterFrom(c),
	}
	if mk := c.Query("max-keys"); mk != "" {
		if n, cErr := strconv.Atoi(mk); cErr == nil {
			in.MaxKeys = n
		}
	}

	result, lErr := s.Engine.ListObjects(bucket, in)
	if lErr != nil {
		writeError(c, lErr)
		return
	}

	res := listBucketResult{
		Name:                  bucket,
		Prefix:                in.Prefix,
		Delimiter:             in.Delimiter,
		MaxKeys:               maxKeysOrDefault(in.MaxKeys),
		IsTruncated:           result.Truncated,
		NextContinuationToken: result.NextContinuationToken,
	}
	for _, p := range result.CommonPrefixes {
		res.CommonPrefixes = append(res.CommonPrefixes, commonPrefixEntry{Prefix: p})
	}
	for _, k := range result.Keys {
		objMeta, _, hErr := s.Engine.HeadObject(bucket, k)
		entry := contentsEntry{Key: k}
		if hErr == nil {
			entry.ETag = `"` + objMeta.ETag + `"`
			entry.Size = objMeta.Size
			entry.LastModified = objMeta.LastModified.UTC().Format(time.RFC3339)
		}
		res.Contents = append(res.Contents, entry)
	}
	c.XML(http.StatusOK, res)
}

// startAfterFrom prefers continuation-token (list-type=2) over the
// legacy marker/start-after parameter names (spec.md §6).
func startAfterFrom(c *ginsdk.Context) string {
	if v := c.Query("continuation-token"); v != "" {
		return v
	}
	if v := c.Query("start-after"); v != "" {
		return v
	}
	return c.Query("marker")
}

func maxKeysOrDefault(n int) int {
	if n <= 0 {
		return storage.DefaultMaxKeys
	}
	return n
}
