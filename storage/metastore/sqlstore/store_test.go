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

package sqlstore_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/lamina/storage/metastore/sqlstore"
	"github.com/nabbar/lamina/types"
)

var _ = Describe("Store", func() {
	var store *sqlstore.Store
	ctx := context.Background()

	BeforeEach(func() {
		s, err := sqlstore.Open(":memory:")
		Expect(err).NotTo(HaveOccurred())
		store = s
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	It("round-trips Upsert/Get", func() {
		rec := types.ObjectMeta{
			BucketName:   "bucket",
			Key:          "a.txt",
			ETag:         "abc123",
			Size:         5,
			LastModified: time.Now().UTC().Truncate(time.Second),
			ContentType:  "text/plain",
			Metadata:     map[string]string{"k": "v"},
		}
		Expect(store.Upsert(ctx, rec)).To(Succeed())

		got, found, err := store.Get(ctx, "bucket", "a.txt")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(got.ETag).To(Equal("abc123"))
		Expect(got.Metadata).To(Equal(map[string]string{"k": "v"}))
	})

	It("reports found=false for a row that was never indexed", func() {
		_, found, err := store.Get(ctx, "bucket", "absent.txt")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("replaces an existing row on re-Upsert", func() {
		rec := types.ObjectMeta{BucketName: "bucket", Key: "a.txt", ETag: "first", Size: 1}
		Expect(store.Upsert(ctx, rec)).To(Succeed())

		rec.ETag = "second"
		rec.Size = 2
		Expect(store.Upsert(ctx, rec)).To(Succeed())

		got, _, err := store.Get(ctx, "bucket", "a.txt")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ETag).To(Equal("second"))
		Expect(got.Size).To(Equal(int64(2)))
	})

	It("deletes a row", func() {
		Expect(store.Upsert(ctx, types.ObjectMeta{BucketName: "bucket", Key: "a.txt"})).To(Succeed())
		Expect(store.Delete(ctx, "bucket", "a.txt")).To(Succeed())

		_, found, err := store.Get(ctx, "bucket", "a.txt")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("deleting an absent row is not an error", func() {
		Expect(store.Delete(ctx, "bucket", "absent.txt")).To(Succeed())
	})

	It("lists rows under a prefix in key order", func() {
		Expect(store.Upsert(ctx, types.ObjectMeta{BucketName: "bucket", Key: "2024/b.txt"})).To(Succeed())
		Expect(store.Upsert(ctx, types.ObjectMeta{BucketName: "bucket", Key: "2024/a.txt"})).To(Succeed())
		Expect(store.Upsert(ctx, types.ObjectMeta{BucketName: "bucket", Key: "other.txt"})).To(Succeed())

		rows, err := store.List(ctx, "bucket", "2024/")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Key).To(Equal("2024/a.txt"))
		Expect(rows[1].Key).To(Equal("2024/b.txt"))
	})

	It("isolates rows by bucket", func() {
		Expect(store.Upsert(ctx, types.ObjectMeta{BucketName: "one", Key: "a.txt"})).To(Succeed())
		Expect(store.Upsert(ctx, types.ObjectMeta{BucketName: "two", Key: "a.txt"})).To(Succeed())

		rows, err := store.List(ctx, "one", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
	})
})
