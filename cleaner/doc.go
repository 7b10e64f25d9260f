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

// Package cleaner runs the three background sweepers spec.md §4.5 names:
// a stale-multipart-upload cleaner, an orphan-metadata cleaner, and a
// temp-file cleaner. Each sweeper is its own interval loop built on
// github.com/nabbar/golib/runner/ticker, independently enabled and
// configured, and isolates per-item failures so one bad upload, record,
// or file never stops the rest of its sweep or any other sweeper.
//
// Sweepers never hold the process up: a Manager's Start returns once
// every enabled ticker is running, and Stop tears every one of them
// down. The temp-file and orphan-metadata sweeps act on the filesystem
// directly and take no lock from the storage engine's lock manager; the
// stale-multipart sweep acts only through the multipart manager's Abort,
// which locks the upload record.
package cleaner
