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

package metastore

import (
	"context"

	"github.com/nabbar/lamina/types"
)

// MetadataStore is a queryable secondary index over object metadata,
// keyed by (bucket, key). Implementations must tolerate being called
// concurrently from multiple goroutines.
type MetadataStore interface {
	// Upsert records or replaces rec's row.
	Upsert(ctx context.Context, rec types.ObjectMeta) error

	// Delete removes the row for (bucket, key), if any. Deleting a row
	// that does not exist is not an error.
	Delete(ctx context.Context, bucket, key string) error

	// Get returns the row for (bucket, key). found is false if no row
	// is indexed, which is not itself an error.
	Get(ctx context.Context, bucket, key string) (rec types.ObjectMeta, found bool, err error)

	// List returns every row in bucket whose key starts with prefix,
	// ordered by key.
	List(ctx context.Context, bucket, prefix string) ([]types.ObjectMeta, error)

	// Close releases any held resources (e.g. the underlying *sql.DB).
	Close() error
}
