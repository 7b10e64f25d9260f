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

// Package multipart implements the multipart upload lifecycle
// (spec.md §4.4): Initiate, UploadPart, Complete and Abort, plus the
// NoSuchUpload terminal-state handling a cleaner or a retried client
// call relies on.
//
// An upload's state lives under Manager's root directory, one
// subdirectory per uploadId, holding an upload.metadata.json record
// (bucket, key, initiated time, content-type, user metadata, parts
// map) plus one file per uploaded part. The filesystem under that
// directory is the only state a Manager keeps; nothing is cached in
// memory across calls.
//
// Complete streams the parts, in the order requested, through the
// storage engine's normal atomic-write path, so the assembled object's
// ETag falls out of that path the same way a single PutObject's ETag
// does: SHA-1 of every byte written. That is deliberately not Amazon's
// ETag-of-ETags convention (spec.md §7's Redesign Flag).
package multipart
