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

package config_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/lamina/config"
	"github.com/nabbar/lamina/storage"
)

var _ = Describe("Config builders", func() {
	cfg := config.Config{
		Server: config.ServerConfig{
			Name:   "lamina",
			Listen: "127.0.0.1:9000",
			Expose: "http://127.0.0.1:9000",
		},
		FilesystemStorage: config.FilesystemStorageConfig{
			DataDirectory: "/data",
			MetadataMode:  "SeparateDirectory",
			RetryCount:    5,
		},
		MetadataCache: config.MetadataCacheConfig{
			Enabled:                   true,
			AbsoluteExpirationMinutes: 5,
		},
		MultipartUploadCleanup: config.MultipartUploadCleanupConfig{
			Enabled:      true,
			TimeoutHours: 12,
		},
	}

	It("translates Server into httpserver.Config", func() {
		hc := cfg.HTTPServerConfig()
		Expect(hc.Name).To(Equal("lamina"))
		Expect(hc.Listen).To(Equal("127.0.0.1:9000"))
	})

	It("translates FilesystemStorage into storage.Config", func() {
		sc := cfg.StorageConfig()
		Expect(sc.DataDirectory).To(Equal("/data"))
		Expect(sc.MetadataMode).To(Equal(storage.MetadataModeSeparateDirectory))
		Expect(sc.RetryCount).To(Equal(5))
	})

	It("translates the cleanup sections into cleaner.Config", func() {
		cc := cfg.CleanerConfig()
		Expect(cc.MultipartUploadCleanup.Enabled).To(BeTrue())
		Expect(cc.MultipartUploadCleanup.TimeoutHours).To(Equal(12))
	})

	It("builds a metadata cache only when enabled", func() {
		c := cfg.BuildMetadataCache(context.Background())
		Expect(c).NotTo(BeNil())
		defer c.Close()

		disabled := config.Config{}
		Expect(disabled.BuildMetadataCache(context.Background())).To(BeNil())
	})
})
