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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/lamina/storage"
)

var _ = Describe("ValidateBucketName", func() {
	DescribeTable("valid names",
		func(name string) {
			Expect(storage.ValidateBucketName(name)).To(BeTrue())
		},
		Entry("simple", "mybucket"),
		Entry("with dash", "my-bucket-01"),
		Entry("with dot", "my.bucket.example"),
		Entry("minimum length", "abc"),
	)

	DescribeTable("invalid names",
		func(name string) {
			Expect(storage.ValidateBucketName(name)).To(BeFalse())
		},
		Entry("too short", "ab"),
		Entry("too long", stringOfLen(64)),
		Entry("uppercase", "MyBucket"),
		Entry("leading dash", "-mybucket"),
		Entry("trailing dash", "mybucket-"),
		Entry("consecutive dots", "my..bucket"),
		Entry("dot-dash", "my.-bucket"),
		Entry("dash-dot", "my-.bucket"),
		Entry("ipv4-shaped", "192.168.1.1"),
		Entry("reserved xn-- prefix", "xn--mybucket"),
		Entry("reserved sthree- prefix", "sthree-mybucket"),
		Entry("reserved amzn-s3-demo- prefix", "amzn-s3-demo-mybucket"),
	)
})

func stringOfLen(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
