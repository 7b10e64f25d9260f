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
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/lamina/storage"
)

var _ = Describe("IsTransient", func() {
	It("matches a known transient substring", func() {
		Expect(storage.IsTransient(errors.New("sharing violation on file"))).To(BeTrue())
	})

	It("does not match an unrelated fatal error", func() {
		Expect(storage.IsTransient(errors.New("disk quota exceeded"))).To(BeFalse())
	})

	It("returns false for nil", func() {
		Expect(storage.IsTransient(nil)).To(BeFalse())
	})
})

var _ = Describe("Retry", func() {
	It("returns nil immediately on first success", func() {
		calls := 0
		err := storage.Retry(context.Background(), storage.DefaultRetryPolicy, func() error {
			calls++
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(1))
	})

	It("retries a transient error up to Count+1 times then gives up", func() {
		calls := 0
		policy := storage.RetryPolicy{Count: 2, DelayMs: 0}
		err := storage.Retry(context.Background(), policy, func() error {
			calls++
			return errors.New("sharing violation")
		})
		Expect(err).To(HaveOccurred())
		Expect(calls).To(Equal(3))
	})

	It("does not retry a non-transient error", func() {
		calls := 0
		policy := storage.RetryPolicy{Count: 3, DelayMs: 0}
		err := storage.Retry(context.Background(), policy, func() error {
			calls++
			return errors.New("disk quota exceeded")
		})
		Expect(err).To(HaveOccurred())
		Expect(calls).To(Equal(1))
	})

	It("stops on context cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := storage.Retry(ctx, storage.DefaultRetryPolicy, func() error {
			calls++
			return errors.New("sharing violation")
		})
		Expect(err).To(HaveOccurred())
		Expect(calls).To(Equal(0))
	})
})
