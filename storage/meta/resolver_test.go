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

package meta_test

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/lamina/storage/meta"
	"github.com/nabbar/lamina/types"
)

func sha1Hex(body string) string {
	sum := sha1.Sum([]byte(body))
	return hex.EncodeToString(sum[:])
}

var _ = Describe("Resolver", func() {
	var (
		dataRoot string
		metaRoot string
		store    *meta.SeparateDirectoryStore
		resolver *meta.Resolver
		dataPath string
	)

	BeforeEach(func() {
		dataRoot = GinkgoT().TempDir()
		metaRoot = GinkgoT().TempDir()
		store = meta.NewSeparateDirectoryStore(metaRoot)
		resolver = meta.NewResolver(store)
		dataPath = filepath.Join(dataRoot, "object.txt")
		Expect(os.WriteFile(dataPath, []byte("Hello"), 0o644)).To(Succeed())
	})

	It("reports found=false and scrubs any orphan record when the data file is gone (D1/D3)", func() {
		rec := types.ObjectMeta{BucketName: "b", Key: "object.txt", ETag: "stale"}
		Expect(store.Write("b", "object.txt", dataPath, rec)).To(BeNil())
		Expect(os.Remove(dataPath)).To(Succeed())

		_, found, err := resolver.Read("b", "object.txt", dataPath)
		Expect(err).To(BeNil())
		Expect(found).To(BeFalse())

		_, ok, _ := store.Read("b", "object.txt", dataPath)
		Expect(ok).To(BeFalse())
	})

	It("synthesizes metadata when none was ever persisted (D1)", func() {
		got, found, err := resolver.Read("b", "object.txt", dataPath)
		Expect(err).To(BeNil())
		Expect(found).To(BeTrue())
		Expect(got.ETag).To(Equal(sha1Hex("Hello")))
		Expect(got.ContentType).To(Equal("text/plain"))
		Expect(got.Metadata).To(BeEmpty())
		Expect(got.Checksums.IsZero()).To(BeTrue())
	})

	It("returns fresh metadata unchanged (no recompute) when it matches the data file", func() {
		info, statErr := os.Stat(dataPath)
		Expect(statErr).NotTo(HaveOccurred())

		rec := types.ObjectMeta{
			BucketName:   "b",
			Key:          "object.txt",
			ETag:         sha1Hex("Hello"),
			Size:         info.Size(),
			LastModified: info.ModTime().UTC(),
			ContentType:  "application/pdf",
			Metadata:     map[string]string{"k": "v"},
		}
		Expect(store.Write("b", "object.txt", dataPath, rec)).To(BeNil())

		got, found, err := resolver.Read("b", "object.txt", dataPath)
		Expect(err).To(BeNil())
		Expect(found).To(BeTrue())
		Expect(got.ContentType).To(Equal("application/pdf"))
		Expect(got.ETag).To(Equal(sha1Hex("Hello")))
	})

	It("recomputes ETag and only previously-populated checksum fields on staleness (D2)", func() {
		rec := types.ObjectMeta{
			BucketName:   "b",
			Key:          "object.txt",
			ETag:         "bogus-stale-etag",
			Size:         999, // deliberately wrong: forces staleness
			LastModified: time.Now().UTC(),
			ContentType:  "application/pdf",
			Metadata:     map[string]string{"k": "v"},
			Checksums:    types.Checksums{CRC32: "bogus"},
		}
		Expect(store.Write("b", "object.txt", dataPath, rec)).To(BeNil())

		got, found, err := resolver.Read("b", "object.txt", dataPath)
		Expect(err).To(BeNil())
		Expect(found).To(BeTrue())

		// ETag always recomputed
		Expect(got.ETag).To(Equal(sha1Hex("Hello")))
		// previously non-empty checksum field recomputed to a real value
		Expect(got.Checksums.CRC32).NotTo(Equal("bogus"))
		Expect(got.Checksums.CRC32).NotTo(BeEmpty())
		// previously empty checksum fields remain empty
		Expect(got.Checksums.SHA256).To(BeEmpty())
		// content-type and user metadata are untouched by staleness repair
		Expect(got.ContentType).To(Equal("application/pdf"))
		Expect(got.Metadata).To(Equal(map[string]string{"k": "v"}))
		// size/mtime are corrected to match the data file
		info, _ := os.Stat(dataPath)
		Expect(got.Size).To(Equal(info.Size()))
	})

	It("treats metadata as stale when LastModified drifts by more than one second", func() {
		info, _ := os.Stat(dataPath)
		rec := types.ObjectMeta{
			BucketName:   "b",
			Key:          "object.txt",
			ETag:         "whatever",
			Size:         info.Size(),
			LastModified: info.ModTime().UTC().Add(-2 * time.Second),
			ContentType:  "text/plain",
		}
		Expect(store.Write("b", "object.txt", dataPath, rec)).To(BeNil())

		got, _, err := resolver.Read("b", "object.txt", dataPath)
		Expect(err).To(BeNil())
		Expect(got.ETag).To(Equal(sha1Hex("Hello")))
	})

	It("skips persisting a record carrying only defaults", func() {
		rec := types.ObjectMeta{
			BucketName:  "b",
			Key:         "object.txt",
			ETag:        sha1Hex("Hello"),
			ContentType: meta.DefaultContentType,
		}
		Expect(resolver.Write("b", "object.txt", dataPath, rec)).To(BeNil())

		_, ok, _ := store.Read("b", "object.txt", dataPath)
		Expect(ok).To(BeFalse())
	})

	It("persists a record carrying any non-default field", func() {
		rec := types.ObjectMeta{
			BucketName:  "b",
			Key:         "object.txt",
			ETag:        sha1Hex("Hello"),
			ContentType: "application/pdf",
		}
		Expect(resolver.Write("b", "object.txt", dataPath, rec)).To(BeNil())

		_, ok, _ := store.Read("b", "object.txt", dataPath)
		Expect(ok).To(BeTrue())
	})
})
