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

package storage_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/lamina/s3err"
	"github.com/nabbar/lamina/storage"
	"github.com/nabbar/lamina/types"
)

var _ = Describe("Bucket lifecycle", func() {
	var eng *storage.Engine

	BeforeEach(func() {
		eng = newTestEngine(GinkgoT().TempDir())
	})

	It("creates a bucket and reports it via HeadBucket", func() {
		Expect(eng.CreateBucket("my-bucket", types.BucketGeneralPurpose, "eu-west-1")).NotTo(HaveOccurred())

		b, found, err := eng.HeadBucket("my-bucket")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(b.Name).To(Equal("my-bucket"))
		Expect(b.Type).To(Equal(types.BucketGeneralPurpose))
		Expect(b.Region).To(Equal("eu-west-1"))
	})

	It("reports found=false, err=nil for a bucket that does not exist", func() {
		_, found, err := eng.HeadBucket("absent")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("rejects creating a bucket twice", func() {
		Expect(eng.CreateBucket("dup", types.BucketGeneralPurpose, "")).NotTo(HaveOccurred())
		err := eng.CreateBucket("dup", types.BucketGeneralPurpose, "")
		Expect(err).To(HaveOccurred())
		Expect(s3err.Of(err)).To(Equal(s3err.KindBucketAlreadyExists))
	})

	It("rejects an invalid bucket name", func() {
		err := eng.CreateBucket("AB", types.BucketGeneralPurpose, "")
		Expect(err).To(HaveOccurred())
		Expect(s3err.Of(err)).To(Equal(s3err.KindInvalidBucketName))
	})

	It("deletes an empty bucket", func() {
		Expect(eng.CreateBucket("empty", types.BucketGeneralPurpose, "")).NotTo(HaveOccurred())
		Expect(eng.DeleteBucket("empty", false)).NotTo(HaveOccurred())

		_, found, err := eng.HeadBucket("empty")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("refuses to delete a non-empty bucket without force", func() {
		Expect(eng.CreateBucket("full", types.BucketGeneralPurpose, "")).NotTo(HaveOccurred())
		_, pErr := eng.PutObject(ctxBG(), "full", "a.txt", strings.NewReader("x"), "", nil, storage.ChecksumRequest{})
		Expect(pErr).NotTo(HaveOccurred())

		err := eng.DeleteBucket("full", false)
		Expect(err).To(HaveOccurred())
		Expect(s3err.Of(err)).To(Equal(s3err.KindBucketNotEmpty))
	})

	It("force-deletes a non-empty bucket", func() {
		Expect(eng.CreateBucket("full", types.BucketGeneralPurpose, "")).NotTo(HaveOccurred())
		_, pErr := eng.PutObject(ctxBG(), "full", "a.txt", strings.NewReader("x"), "", nil, storage.ChecksumRequest{})
		Expect(pErr).NotTo(HaveOccurred())

		Expect(eng.DeleteBucket("full", true)).NotTo(HaveOccurred())

		_, found, err := eng.HeadBucket("full")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("rejects deleting a bucket that does not exist", func() {
		err := eng.DeleteBucket("absent", false)
		Expect(err).To(HaveOccurred())
		Expect(s3err.Of(err)).To(Equal(s3err.KindNoSuchBucket))
	})
})
