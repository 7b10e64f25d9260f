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

	"github.com/nabbar/lamina/types"
)

// Store persists and retrieves the auxiliary metadata record for one
// object. Implementations never decide whether the object exists; the
// caller (Resolver) stats the data file first, and when it is missing
// only calls Delete to drop any leftover record.
//
// dataPath is always the absolute path to the object's current data
// file. SeparateDirectory and Inline implementations ignore it and
// locate their sidecar from (bucket, key); Xattr uses it as the
// attribute target directly.
type Store interface {
	// Read returns the persisted record for (bucket, key), or ok=false
	// if none exists.
	Read(bucket, key, dataPath string) (rec types.ObjectMeta, ok bool, err liberr.Error)

	// Write persists rec, creating any parent directory the mode needs.
	Write(bucket, key, dataPath string, rec types.ObjectMeta) liberr.Error

	// Delete removes any persisted record for (bucket, key). Deleting a
	// record that does not exist is not an error.
	Delete(bucket, key, dataPath string) liberr.Error
}

// IsDefault reports whether rec carries only the defaults write-time
// metadata skips persisting (spec.md §4.3.5): content-type is the
// generic octet-stream fallback, no user metadata, no checksums.
func IsDefault(rec types.ObjectMeta) bool {
	return rec.ContentType == DefaultContentType && len(rec.Metadata) == 0 && rec.Checksums.IsZero()
}
