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

import (
	"context"
	"time"

	liberr "github.com/nabbar/golib/errors"
	"github.com/nabbar/golib/runner/ticker"

	"github.com/nabbar/lamina/storage/meta"
	"github.com/nabbar/lamina/types"
)

// MultipartManager is the subset of *multipart.Manager the stale-upload
// sweeper needs.
type MultipartManager interface {
	ListUploads(bucket string) ([]types.MultipartUpload, liberr.Error)
	Abort(uploadID, bucket, key string) liberr.Error
}

// Engine is the subset of *storage.Engine the orphan-metadata and
// temp-file sweepers need.
type Engine interface {
	ObjectPath(bucket, key string) string
	DataDirectory() string
	TempFilePrefix() string
}

// Manager owns the three sweepers and their independent interval loops.
// A sweeper whose Config.Enabled is false is never started.
type Manager struct {
	cfg     Config
	uploads MultipartManager
	store   meta.Store
	engine  Engine

	staleMultipart ticker.Ticker
	orphanMetadata ticker.Ticker
	tempFile       ticker.Ticker

	// clock is a seam so tests can simulate upload/file age without
	// sleeping past real timeout windows.
	clock func() time.Time
}

// New builds a Manager. store is the same meta.Store the storage engine
// was configured with; the orphan-metadata sweeper type-asserts it
// against meta.Walker and simply skips that sweep (logging why) when
// the configured mode does not support enumeration.
func New(cfg Config, uploads MultipartManager, store meta.Store, engine Engine) *Manager {
	return &Manager{cfg: cfg, uploads: uploads, store: store, engine: engine, clock: func() time.Time { return time.Now().UTC() }}
}

// Start launches every enabled sweeper's ticker. It returns the first
// error any ticker's Start reports; tickers already started are left
// running so a caller can still Stop them during shutdown.
func (m *Manager) Start(ctx context.Context) liberr.Error {
	if m.cfg.MultipartUploadCleanup.Enabled {
		m.staleMultipart = ticker.New(m.cfg.MultipartUploadCleanup.interval(), m.sweepStaleMultipart)
		if err := m.staleMultipart.Start(ctx); err != nil {
			return errSweepStart(err)
		}
	}
	if m.cfg.MetadataCleanup.Enabled {
		m.orphanMetadata = ticker.New(m.cfg.MetadataCleanup.interval(), m.sweepOrphanMetadata)
		if err := m.orphanMetadata.Start(ctx); err != nil {
			return errSweepStart(err)
		}
	}
	if m.cfg.TempFileCleanup.Enabled {
		m.tempFile = ticker.New(m.cfg.TempFileCleanup.interval(), m.sweepTempFile)
		if err := m.tempFile.Start(ctx); err != nil {
			return errSweepStart(err)
		}
	}
	return nil
}

// Stop tears down every sweeper that was started, returning the first
// error encountered but always attempting all three.
func (m *Manager) Stop(ctx context.Context) liberr.Error {
	var first error
	for _, t := range []ticker.Ticker{m.staleMultipart, m.orphanMetadata, m.tempFile} {
		if t == nil {
			continue
		}
		if err := t.Stop(ctx); err != nil && first == nil {
			first = err
		}
	}
	if first != nil {
		return errSweepStop(first)
	}
	return nil
}
