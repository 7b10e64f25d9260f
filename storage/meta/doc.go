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

// Package meta persists and repairs the auxiliary metadata record that
// rides alongside an object's data file: content-type, user metadata and
// optional checksums. The data file is the source of truth (Invariant
// D1); a Store only ever augments it, never gates its existence.
//
// Three Store implementations share one staleness/repair policy
// (Invariant D2), applied by the Resolver; the two JSON-file modes also
// share one record shape (codec.go):
//
//   - SeparateDirectory: one JSON file per object under a metadata root
//     that mirrors the bucket/key layout of the data root.
//   - Inline: one JSON file per object under a dotfile directory living
//     next to the data files themselves, inside the bucket directory.
//   - Xattr: no JSON file at all; each field is one extended attribute
//     on the data file.
//
// Callers select a Store once, at startup, via the configured
// MetadataMode; nothing in this package chooses a mode dynamically.
package meta
