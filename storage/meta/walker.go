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

package meta

import (
	liberr "github.com/nabbar/golib/errors"
)

// Walker is implemented by Store modes that persist metadata as
// sidecar files discoverable independently of the object's data file:
// SeparateDirectory and Inline. It lets the orphan-metadata cleaner
// enumerate every persisted record without the core Store contract
// paying for a capability most callers never need.
//
// XattrStore does not implement Walker: an xattr lives on the data
// file's own inode, so it is deleted the instant the data file is, and
// can never outlive it to become an orphan.
type Walker interface {
	// Walk invokes visit once per persisted (bucket, key) pair. Walk
	// stops and returns the first non-nil error either visit or the
	// underlying filesystem traversal produces.
	Walk(visit func(bucket, key string) liberr.Error) liberr.Error
}

var (
	_ Walker = (*SeparateDirectoryStore)(nil)
	_ Walker = (*InlineStore)(nil)
)
