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
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/lamina/storage/meta"
	"github.com/nabbar/lamina/types"
)

// newXattrStoreOrSkip builds an XattrStore against a throwaway file under
// dir, skipping the spec instead of failing it when the filesystem
// backing the test's temp directory does not support extended
// attributes (e.g. some container overlay/tmpfs configurations).
func newXattrStoreOrSkip(dir string) (*meta.XattrStore, string) {
	probe := filepath.Join(dir, "object.bin")
	Expect(os.WriteFile(probe, []byte("Hello"), 0o644)).To(Succeed())

	store, err := meta.NewXattrStore("", probe)
	if err != nil {
		Skip("extended attributes not supported on this filesystem: " + err.Error())
	}
	return store, probe
}

var _ = Describe("XattrStore", func() {
	It("round-trips a record as extended attributes on the data file", func() {
		dir := GinkgoT().TempDir()
		store, dataPath := newXattrStoreOrSkip(dir)

		rec := types.ObjectMeta{
			BucketName:  "b",
			Key:         "object.bin",
			ETag:        "e1",
			Size:        5,
			ContentType: "application/octet-stream",
			Metadata:    map[string]string{"owner": "alice"},
			Checksums:   types.Checksums{SHA1: "s1"},
		}

		Expect(store.Write("b", "object.bin", dataPath, rec)).To(BeNil())

		got, ok, err := store.Read("b", "object.bin", dataPath)
		Expect(err).To(BeNil())
		Expect(ok).To(BeTrue())
		Expect(got.ETag).To(Equal("e1"))
		Expect(got.ContentType).To(Equal("application/octet-stream"))
		Expect(got.Metadata).To(Equal(rec.Metadata))
		Expect(got.Checksums.SHA1).To(Equal("s1"))
		Expect(got.Checksums.SHA256).To(BeEmpty())
	})

	It("reports ok=false when no ETag attribute was ever set", func() {
		dir := GinkgoT().TempDir()
		store, dataPath := newXattrStoreOrSkip(dir)

		_, ok, err := store.Read("b", "object.bin", dataPath)
		Expect(err).To(BeNil())
		Expect(ok).To(BeFalse())
	})

	It("clears all attributes on Delete", func() {
		dir := GinkgoT().TempDir()
		store, dataPath := newXattrStoreOrSkip(dir)

		rec := types.ObjectMeta{BucketName: "b", Key: "object.bin", ETag: "e1"}
		Expect(store.Write("b", "object.bin", dataPath, rec)).To(BeNil())
		Expect(store.Delete("b", "object.bin", dataPath)).To(BeNil())

		_, ok, _ := store.Read("b", "object.bin", dataPath)
		Expect(ok).To(BeFalse())
	})
})
