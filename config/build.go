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

import (
	"context"
	"time"

	libhts "github.com/nabbar/golib/httpserver"

	"github.com/nabbar/lamina/cleaner"
	"github.com/nabbar/lamina/storage"
	"github.com/nabbar/lamina/storage/cache"
)

// defaultMetadataCacheMaxBytes bounds the attached metadata cache. It
// is not one of spec.md §6's recognized keys (that set is exhaustive);
// a fixed bound keeps the cache from growing unbounded under a very
// large bucket without adding config surface the spec never named.
const defaultMetadataCacheMaxBytes = 64 << 20 // 64 MiB

// HTTPServerConfig translates Server.* into the teacher's own
// httpserver.Config, which cmd/laminad hands to httpserver.New.
func (c Config) HTTPServerConfig() libhts.Config {
	return libhts.Config{
		Name:   c.Server.Name,
		Listen: c.Server.Listen,
		Expose: c.Server.Expose,
	}
}

// StorageConfig translates FilesystemStorage.* into storage.Config.
func (c Config) StorageConfig() storage.Config {
	fs := c.FilesystemStorage
	return storage.Config{
		DataDirectory:               fs.DataDirectory,
		MetadataDirectory:           fs.MetadataDirectory,
		MetadataMode:                storage.MetadataMode(fs.MetadataMode),
		InlineMetadataDirectoryName: fs.InlineMetadataDirectoryName,
		XattrPrefix:                 fs.XattrPrefix,
		TempFilePrefix:              fs.TempFilePrefix,
		RetryCount:                  fs.RetryCount,
		RetryDelayMs:                fs.RetryDelayMs,
	}
}

// CleanerConfig translates the three cleanup sections into
// cleaner.Config.
func (c Config) CleanerConfig() cleaner.Config {
	return cleaner.Config{
		MultipartUploadCleanup: cleaner.MultipartUploadCleanupConfig{
			Enabled:         c.MultipartUploadCleanup.Enabled,
			IntervalMinutes: c.MultipartUploadCleanup.IntervalMinutes,
			TimeoutHours:    c.MultipartUploadCleanup.TimeoutHours,
		},
		MetadataCleanup: cleaner.MetadataCleanupConfig{
			Enabled:         c.MetadataCleanup.Enabled,
			IntervalMinutes: c.MetadataCleanup.IntervalMinutes,
			BatchSize:       c.MetadataCleanup.BatchSize,
		},
		TempFileCleanup: cleaner.TempFileCleanupConfig{
			Enabled:            c.TempFileCleanup.Enabled,
			IntervalMinutes:    c.TempFileCleanup.IntervalMinutes,
			TempFileAgeMinutes: c.TempFileCleanup.TempFileAgeMinutes,
			BatchSize:          c.TempFileCleanup.BatchSize,
		},
	}
}

// BuildMetadataCache builds the storage/cache.Cache MetadataCache.Enabled
// asks for, or nil when disabled — storage.Engine.SetMetadataCache
// accepts nil to mean "no cache attached".
func (c Config) BuildMetadataCache(ctx context.Context) *cache.Cache {
	if !c.MetadataCache.Enabled {
		return nil
	}
	exp := time.Duration(c.MetadataCache.AbsoluteExpirationMinutes) * time.Minute
	return cache.New(ctx, defaultMetadataCacheMaxBytes, exp)
}
