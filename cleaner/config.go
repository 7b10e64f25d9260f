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

package cleaner

import "time"

// MultipartUploadCleanupConfig governs the stale-multipart sweeper
// (spec.md §6 "MultipartUploadCleanup").
type MultipartUploadCleanupConfig struct {
	Enabled         bool
	IntervalMinutes int
	TimeoutHours    int
}

// MetadataCleanupConfig governs the orphan-metadata sweeper (spec.md §6
// "MetadataCleanup").
type MetadataCleanupConfig struct {
	Enabled         bool
	IntervalMinutes int
	BatchSize       int
}

// TempFileCleanupConfig governs the temp-file sweeper (spec.md §6
// "TempFileCleanup").
type TempFileCleanupConfig struct {
	Enabled            bool
	IntervalMinutes    int
	TempFileAgeMinutes int
	BatchSize          int
}

// Config bundles every sweeper's configuration.
type Config struct {
	MultipartUploadCleanup MultipartUploadCleanupConfig
	MetadataCleanup        MetadataCleanupConfig
	TempFileCleanup        TempFileCleanupConfig
}

func (c MultipartUploadCleanupConfig) interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

func (c MultipartUploadCleanupConfig) timeout() time.Duration {
	return time.Duration(c.TimeoutHours) * time.Hour
}

func (c MetadataCleanupConfig) interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

func (c TempFileCleanupConfig) interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

func (c TempFileCleanupConfig) age() time.Duration {
	return time.Duration(c.TempFileAgeMinutes) * time.Minute
}

func batchLimit(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
