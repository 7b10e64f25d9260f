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
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/lamina/config"
)

const sampleConfig = `{
  "Server": {
    "Name": "lamina",
    "Listen": "127.0.0.1:9000",
    "Expose": "http://127.0.0.1:9000"
  },
  "StorageType": "Filesystem",
  "LockManager": "InMemory",
  "FilesystemStorage": {
    "DataDirectory": "/var/lamina/data",
    "MetadataDirectory": "/var/lamina/meta",
    "MetadataMode": "SeparateDirectory",
    "RetryCount": 3,
    "RetryDelayMs": 50
  },
  "MetadataCache": {
    "Enabled": true,
    "AbsoluteExpirationMinutes": 10
  },
  "MultipartUploadCleanup": {
    "Enabled": true,
    "IntervalMinutes": 30,
    "TimeoutHours": 24
  },
  "Authentication": {
    "Enabled": true,
    "Users": [
      {
        "AccessKeyId": "AKIDEXAMPLE",
        "SecretAccessKey": "wJalrXUtnFEMI",
        "Name": "alice",
        "BucketPermissions": [
          { "BucketName": "reports", "Permissions": ["read", "write"] }
        ]
      }
    ]
  }
}`

var _ = Describe("Load", func() {
	var configPath string

	BeforeEach(func() {
		dir := GinkgoT().TempDir()
		configPath = filepath.Join(dir, "lamina.json")
		Expect(os.WriteFile(configPath, []byte(sampleConfig), 0o644)).To(Succeed())
	})

	It("decodes the full key set, including the nested user/permission tables", func() {
		cfg, err := config.Load(context.Background(), configPath)
		Expect(err).To(BeNil())

		Expect(cfg.Server.Listen).To(Equal("127.0.0.1:9000"))
		Expect(cfg.StorageType).To(Equal(config.StorageTypeFilesystem))
		Expect(cfg.LockManager).To(Equal(config.LockManagerInMemory))
		Expect(cfg.FilesystemStorage.DataDirectory).To(Equal("/var/lamina/data"))
		Expect(cfg.FilesystemStorage.RetryCount).To(Equal(3))
		Expect(cfg.MetadataCache.Enabled).To(BeTrue())
		Expect(cfg.MultipartUploadCleanup.TimeoutHours).To(Equal(24))

		Expect(cfg.Authentication.Enabled).To(BeTrue())
		Expect(cfg.Authentication.Users).To(HaveLen(1))
		u := cfg.Authentication.Users[0]
		Expect(u.AccessKeyID).To(Equal("AKIDEXAMPLE"))
		Expect(u.BucketPermissions).To(HaveLen(1))
		Expect(u.BucketPermissions[0].BucketName).To(Equal("reports"))
		Expect(u.BucketPermissions[0].Permissions).To(ConsistOf("read", "write"))
	})

	It("lets an environment variable override a file value", func() {
		GinkgoT().Setenv("LAMINA_FILESYSTEMSTORAGE_DATADIRECTORY", "/tmp/override")

		cfg, err := config.Load(context.Background(), configPath)
		Expect(err).To(BeNil())
		Expect(cfg.FilesystemStorage.DataDirectory).To(Equal("/tmp/override"))
	})

	It("validates successfully for a fully-supported configuration", func() {
		cfg, err := config.Load(context.Background(), configPath)
		Expect(err).To(BeNil())
		Expect(cfg.Validate()).To(BeNil())
	})

	It("rejects a StorageType with no backing implementation", func() {
		cfg, err := config.Load(context.Background(), configPath)
		Expect(err).To(BeNil())
		cfg.StorageType = config.StorageTypeInMemory
		Expect(cfg.Validate()).NotTo(BeNil())
	})

	It("rejects a LockManager with no backing implementation", func() {
		cfg, err := config.Load(context.Background(), configPath)
		Expect(err).To(BeNil())
		cfg.LockManager = "Redis"
		Expect(cfg.Validate()).NotTo(BeNil())
	})

	It("rejects a user missing a secret access key", func() {
		cfg, err := config.Load(context.Background(), configPath)
		Expect(err).To(BeNil())
		cfg.Authentication.Users[0].SecretAccessKey = ""
		Expect(cfg.Validate()).NotTo(BeNil())
	})
})
