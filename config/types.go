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

package config

// StorageType selects the object-storage backend (spec.md §6). Only
// Filesystem has a concrete Engine in this repository; InMemory is
// recognized (so a config file naming it is not rejected as unknown)
// but has no backing implementation, and Validate rejects it explicitly
// rather than silently falling back to Filesystem.
type StorageType string

const (
	StorageTypeInMemory   StorageType = "InMemory"
	StorageTypeFilesystem StorageType = "Filesystem"
)

// LockManagerType selects the per-path lock backend (spec.md §6). Only
// InMemory has a concrete storage/lock.Manager in this repository;
// Redis is recognized for the same reason StorageTypeInMemory is.
type LockManagerType string

const (
	LockManagerInMemory LockManagerType = "InMemory"
	LockManagerRedis    LockManagerType = "Redis"
)

// FilesystemStorageConfig mirrors storage.Config's field set under the
// spec.md §6 "FilesystemStorage.*" key prefix.
type FilesystemStorageConfig struct {
	DataDirectory               string
	MetadataDirectory           string
	MetadataMode                string
	InlineMetadataDirectoryName string
	XattrPrefix                 string
	TempFilePrefix              string
	RetryCount                  int
	RetryDelayMs                int
}

// MetadataCacheConfig governs storage/cache.Cache attachment (spec.md
// §6 "MetadataCache.*"). SlidingExpirationMinutes is recognized and
// decoded but neither validated nor wired: the underlying golib/cache primitive this
// repository builds on exposes one fixed per-entry expiration, which
// AbsoluteExpirationMinutes already covers; see DESIGN.md.
type MetadataCacheConfig struct {
	Enabled                   bool
	AbsoluteExpirationMinutes int
	SlidingExpirationMinutes  int
}

// MultipartUploadCleanupConfig mirrors cleaner.MultipartUploadCleanupConfig
// under the spec.md §6 "MultipartUploadCleanup.*" key prefix.
type MultipartUploadCleanupConfig struct {
	Enabled         bool
	IntervalMinutes int
	TimeoutHours    int
}

// MetadataCleanupConfig mirrors cleaner.MetadataCleanupConfig under the
// spec.md §6 "MetadataCleanup.*" key prefix.
type MetadataCleanupConfig struct {
	Enabled         bool
	IntervalMinutes int
	BatchSize       int
}

// TempFileCleanupConfig mirrors cleaner.TempFileCleanupConfig under the
// spec.md §6 "TempFileCleanup.*" key prefix.
type TempFileCleanupConfig struct {
	Enabled            bool
	IntervalMinutes    int
	TempFileAgeMinutes int
	BatchSize          int
}

// BucketPermissionConfig is one entry of a user's
// "BucketPermissions[*]" table (spec.md §6).
type BucketPermissionConfig struct {
	BucketName  string
	Permissions []string
}

// UserConfig is one entry of "Authentication.Users[*]" (spec.md §6).
type UserConfig struct {
	AccessKeyID       string `mapstructure:"AccessKeyId"`
	SecretAccessKey   string
	Name              string
	BucketPermissions []BucketPermissionConfig
}

// AuthenticationConfig governs sigv4 request validation (spec.md §6
// "Authentication.*"). When Enabled is false, the gateway is built
// without a sigv4.Validator and every request bypasses signature
// checking, matching the unauthenticated mode spec.md §4.1 allows for
// local/dev deployments.
type AuthenticationConfig struct {
	Enabled bool
	Users   []UserConfig
}

// ServerConfig is the bind-address triple SPEC_FULL.md §6.1 adds on top
// of spec.md's S3-facing key set: the HTTP facade needs somewhere to
// listen, and spec.md is silent on it. Name/Listen/Expose line up with
// the teacher's own httpserver.Config fields of the same names.
type ServerConfig struct {
	Name   string
	Listen string
	Expose string
}

// Config is the full exhaustive recognized set of spec.md §6 plus the
// Server.* triple SPEC_FULL.md §6.1 supplements it with.
type Config struct {
	Server                 ServerConfig
	StorageType            StorageType
	LockManager            LockManagerType
	FilesystemStorage      FilesystemStorageConfig
	MetadataCache          MetadataCacheConfig
	MultipartUploadCleanup MultipartUploadCleanupConfig
	MetadataCleanup        MetadataCleanupConfig
	TempFileCleanup        TempFileCleanupConfig
	Authentication         AuthenticationConfig
}
