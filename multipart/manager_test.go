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

package multipart_test

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/lamina/multipart"
	"github.com/nabbar/lamina/s3err"
	"github.com/nabbar/lamina/storage"
	"github.com/nabbar/lamina/storage/lock"
	"github.com/nabbar/lamina/types"
)

func newTestManager(dir string) (*storage.Engine, *multipart.Manager) {
	cfg := storage.Config{
		DataDirectory:     filepath.Join(dir, "data"),
		MetadataDirectory: filepath.Join(dir, "meta"),
		MetadataMode:      storage.MetadataModeSeparateDirectory,
	}
	locks := lock.NewInMemoryManager(context.Background())
	eng, err := storage.NewEngine(cfg, locks)
	Expect(err).NotTo(HaveOccurred())

	mgr := multipart.New(eng.MultipartRoot(), eng, locks)
	return eng, mgr
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

var _ = Describe("Manager", func() {
	var (
		eng *storage.Engine
		mgr *multipart.Manager
	)

	BeforeEach(func() {
		eng, mgr = newTestManager(GinkgoT().TempDir())
		Expect(eng.CreateBucket("b3", types.BucketGeneralPurpose, "")).To(Succeed())
	})

	It("assembles parts in order with a SHA-1-of-concatenation ETag", func() {
		uploadID, err := mgr.Initiate("b3", "obj.bin", "application/octet-stream", nil)
		Expect(err).NotTo(HaveOccurred())

		p1, err := mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 1, strings.NewReader("Part 1 "))
		Expect(err).NotTo(HaveOccurred())
		p2, err := mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 2, strings.NewReader("Part 2"))
		Expect(err).NotTo(HaveOccurred())

		obj, err := mgr.Complete(context.Background(), uploadID, "b3", "obj.bin", []types.CompletedPart{
			{PartNumber: 1, ETag: p1.ETag},
			{PartNumber: 2, ETag: p2.ETag},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(obj.ETag).To(Equal(sha1Hex("Part 1 Part 2")))
		Expect(obj.Size).To(BeEquivalentTo(13))

		body, meta, gErr := eng.GetObject("b3", "obj.bin")
		Expect(gErr).NotTo(HaveOccurred())
		defer body.Close()
		data, _ := io.ReadAll(body)
		Expect(string(data)).To(Equal("Part 1 Part 2"))
		Expect(meta.ETag).To(Equal(obj.ETag))
	})

	It("no longer lists the upload once completed", func() {
		uploadID, _ := mgr.Initiate("b3", "obj.bin", "", nil)
		p1, _ := mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 1, strings.NewReader("a"))

		list, err := mgr.ListUploads("b3")
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))

		_, err = mgr.Complete(context.Background(), uploadID, "b3", "obj.bin", []types.CompletedPart{{PartNumber: 1, ETag: p1.ETag}})
		Expect(err).NotTo(HaveOccurred())

		list, err = mgr.ListUploads("b3")
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(BeEmpty())
	})

	It("rejects Complete with a part ETag that does not match", func() {
		uploadID, _ := mgr.Initiate("b3", "obj.bin", "", nil)
		_, _ = mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 1, strings.NewReader("a"))

		_, err := mgr.Complete(context.Background(), uploadID, "b3", "obj.bin", []types.CompletedPart{{PartNumber: 1, ETag: "wrong"}})
		Expect(err).To(HaveOccurred())
		Expect(s3err.Of(err)).To(Equal(s3err.KindInvalidArgument))
	})

	It("rejects Complete with non-increasing part numbers", func() {
		uploadID, _ := mgr.Initiate("b3", "obj.bin", "", nil)
		p1, _ := mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 1, strings.NewReader("a"))
		p2, _ := mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 2, strings.NewReader("b"))

		_, err := mgr.Complete(context.Background(), uploadID, "b3", "obj.bin", []types.CompletedPart{
			{PartNumber: 2, ETag: p2.ETag},
			{PartNumber: 1, ETag: p1.ETag},
		})
		Expect(err).To(HaveOccurred())
		Expect(s3err.Of(err)).To(Equal(s3err.KindInvalidArgument))
	})

	It("overwrites a part uploaded twice under the same number", func() {
		uploadID, _ := mgr.Initiate("b3", "obj.bin", "", nil)
		_, _ = mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 1, strings.NewReader("first"))
		p1, _ := mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 1, strings.NewReader("second"))

		obj, err := mgr.Complete(context.Background(), uploadID, "b3", "obj.bin", []types.CompletedPart{{PartNumber: 1, ETag: p1.ETag}})
		Expect(err).NotTo(HaveOccurred())
		Expect(obj.ETag).To(Equal(sha1Hex("second")))
	})

	It("removes all part state on Abort", func() {
		uploadID, _ := mgr.Initiate("b3", "obj.bin", "", nil)
		_, _ = mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 1, strings.NewReader("a"))

		Expect(mgr.Abort(uploadID, "b3", "obj.bin")).To(Succeed())

		list, err := mgr.ListUploads("b3")
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(BeEmpty())
	})

	It("returns NoSuchUpload for any operation after Complete", func() {
		uploadID, _ := mgr.Initiate("b3", "obj.bin", "", nil)
		p1, _ := mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 1, strings.NewReader("a"))
		_, err := mgr.Complete(context.Background(), uploadID, "b3", "obj.bin", []types.CompletedPart{{PartNumber: 1, ETag: p1.ETag}})
		Expect(err).NotTo(HaveOccurred())

		_, err = mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 2, strings.NewReader("b"))
		Expect(err).To(HaveOccurred())
		Expect(s3err.Of(err)).To(Equal(s3err.KindNoSuchUpload))

		Expect(s3err.Of(mgr.Abort(uploadID, "b3", "obj.bin"))).To(Equal(s3err.KindNoSuchUpload))
	})

	It("returns NoSuchUpload for an unknown uploadId", func() {
		_, err := mgr.UploadPart(context.Background(), "does-not-exist", "b3", "obj.bin", 1, strings.NewReader("a"))
		Expect(s3err.Of(err)).To(Equal(s3err.KindNoSuchUpload))
	})

	It("leaves upload state intact when Complete fails validation", func() {
		uploadID, _ := mgr.Initiate("b3", "obj.bin", "", nil)
		_, _ = mgr.UploadPart(context.Background(), uploadID, "b3", "obj.bin", 1, strings.NewReader("a"))

		_, err := mgr.Complete(context.Background(), uploadID, "b3", "obj.bin", []types.CompletedPart{{PartNumber: 1, ETag: "wrong"}})
		Expect(err).To(HaveOccurred())

		list, lErr := mgr.ListUploads("b3")
		Expect(lErr).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
	})
})
