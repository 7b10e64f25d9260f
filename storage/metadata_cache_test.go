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
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libsize "github.com/nabbar/golib/size"

	"github.com/nabbar/lamina/storage"
	"github.com/nabbar/lamina/storage/cache"
	"github.com/nabbar/lamina/types"
)

var _ = Describe("Engine metadata cache wiring", func() {
	var (
		eng *storage.Engine
		mc  *cache.Cache
	)

	BeforeEach(func() {
		eng = newTestEngine(GinkgoT().TempDir())
		Expect(eng.CreateBucket("bucket", types.BucketGeneralPurpose, "")).NotTo(HaveOccurred())

		mc = cache.New(ctxBG(), libsize.Size(1<<20), time.Hour)
		eng.SetMetadataCache(mc)
	})

	It("serves HeadObject from cache without the mtime on disk changing", func() {
		_, err := eng.PutObject(ctxBG(), "bucket", "a.txt", strings.NewReader("one"), "", nil, storage.ChecksumRequest{})
		Expect(err).NotTo(HaveOccurred())

		rec, found, hErr := eng.HeadObject("bucket", "a.txt")
		Expect(hErr).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(rec.Size).To(Equal(int64(3)))

		cached, ok := mc.Get("bucket", "a.txt", rec.LastModified)
		Expect(ok).To(BeTrue())
		Expect(cached.ETag).To(Equal(rec.ETag))
	})

	It("invalidates the cached entry when the object is overwritten", func() {
		_, err := eng.PutObject(ctxBG(), "bucket", "a.txt", strings.NewReader("one"), "", nil, storage.ChecksumRequest{})
		Expect(err).NotTo(HaveOccurred())

		first, found, hErr := eng.HeadObject("bucket", "a.txt")
		Expect(hErr).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())

		// force a distinct mtime so the overwrite is observably a new version.
		time.Sleep(10 * time.Millisecond)

		second, err := eng.PutObject(ctxBG(), "bucket", "a.txt", strings.NewReader("two-bytes!"), "", nil, storage.ChecksumRequest{})
		Expect(err).NotTo(HaveOccurred())
		Expect(second.ETag).NotTo(Equal(first.ETag))

		rec, found, hErr := eng.HeadObject("bucket", "a.txt")
		Expect(hErr).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(rec.ETag).To(Equal(second.ETag))
		Expect(rec.Size).To(Equal(int64(10)))
	})

	It("drops the cached entry on DeleteObject so a later HeadObject reports a miss", func() {
		_, err := eng.PutObject(ctxBG(), "bucket", "a.txt", strings.NewReader("one"), "", nil, storage.ChecksumRequest{})
		Expect(err).NotTo(HaveOccurred())

		_, found, hErr := eng.HeadObject("bucket", "a.txt")
		Expect(hErr).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())

		Expect(eng.DeleteObject("bucket", "a.txt")).NotTo(HaveOccurred())

		_, found, hErr = eng.HeadObject("bucket", "a.txt")
		Expect(hErr).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("recomputes from disk on a stale mtime instead of serving the old record", func() {
		rec, err := eng.PutObject(ctxBG(), "bucket", "a.txt", strings.NewReader("one"), "", nil, storage.ChecksumRequest{})
		Expect(err).NotTo(HaveOccurred())

		// pre-seed the cache under a deliberately wrong mtime, simulating an
		// entry cached before an out-of-band write touched the file.
		stale := types.ObjectMeta{BucketName: "bucket", Key: "a.txt", ETag: "stale-etag", Size: 999}
		mc.Put("bucket", "a.txt", stale, rec.LastModified.Add(-time.Hour))

		got, found, hErr := eng.HeadObject("bucket", "a.txt")
		Expect(hErr).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(got.ETag).To(Equal(rec.ETag))
		Expect(got.ETag).NotTo(Equal("stale-etag"))
	})

	It("reports a clean miss, not an error, for a key with no metadata on disk", func() {
		_, found, hErr := eng.HeadObject("bucket", "missing.txt")
		Expect(hErr).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	AfterEach(func() {
		_ = mc.Close()
	})
})

var _ = Describe("Engine without a metadata cache attached", func() {
	It("resolves metadata straight from the resolver, unaffected by os file stat timing", func() {
		eng := newTestEngine(GinkgoT().TempDir())
		Expect(eng.CreateBucket("bucket", types.BucketGeneralPurpose, "")).NotTo(HaveOccurred())

		_, err := eng.PutObject(ctxBG(), "bucket", "a.txt", strings.NewReader("one"), "", nil, storage.ChecksumRequest{})
		Expect(err).NotTo(HaveOccurred())

		info, statErr := os.Stat(eng.ObjectPath("bucket", "a.txt"))
		Expect(statErr).NotTo(HaveOccurred())
		Expect(info).NotTo(BeNil())

		rec, found, hErr := eng.HeadObject("bucket", "a.txt")
		Expect(hErr).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(rec.Size).To(Equal(int64(3)))
	})
})
