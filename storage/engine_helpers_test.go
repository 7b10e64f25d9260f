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
	"path/filepath"

	. "github.com/onsi/gomega"

	"github.com/nabbar/lamina/storage"
	"github.com/nabbar/lamina/storage/lock"
)

// newTestEngine builds an Engine rooted under dir using the
// SeparateDirectory metadata mode, the convention used throughout this
// package's tests unless a test is specifically about another mode.
func newTestEngine(dir string) *storage.Engine {
	cfg := storage.Config{
		DataDirectory:     filepath.Join(dir, "data"),
		MetadataDirectory: filepath.Join(dir, "meta"),
		MetadataMode:      storage.MetadataModeSeparateDirectory,
	}
	eng, err := storage.NewEngine(cfg, lock.NewInMemoryManager(context.Background()))
	Expect(err).NotTo(HaveOccurred())
	return eng
}

// ctxBG is a one-line alias kept for readability at PutObject call sites
// across this package's tests.
func ctxBG() context.Context {
	return context.Background()
}
