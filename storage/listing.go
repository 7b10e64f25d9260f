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

package storage

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nabbar/lamina/types"
)

// DefaultMaxKeys is the maxKeys default of spec.md §4.3.6.
const DefaultMaxKeys = 1000

// ListInput is the input to List (spec.md §4.3.6).
type ListInput struct {
	BucketType types.BucketType
	Prefix     string
	Delimiter  string
	StartAfter string
	MaxKeys    int
}

// ListResult is List's output.
type ListResult struct {
	Keys                  []string
	CommonPrefixes        []string
	Truncated             bool
	NextContinuationToken string
}

// skipNames are path segments (directory or file base names) the
// listing walk never descends into or reports: the bucket-info sidecar,
// the Inline metadata sidecar directory and any in-flight temp file.
type skipNames struct {
	dirNames   []string
	tempPrefix string
}

// listDataKeys walks root (DataDirectory/<bucket>) and returns object
// keys as forward-slash-joined relative paths, in GeneralPurpose
// (byte-lexicographic) or Directory (raw enumeration) order per
// bucketType. Step 1-2 of spec.md §4.3.6.
func listDataKeys(root string, bucketType types.BucketType, skip skipNames) ([]string, error) {
	var keys []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		base := d.Name()

		if d.IsDir() {
			for _, n := range skip.dirNames {
				if n != "" && base == n {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if skip.tempPrefix != "" && strings.HasPrefix(base, skip.tempPrefix) {
			return nil
		}
		for _, n := range skip.dirNames {
			if n != "" && base == n {
				return nil
			}
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if bucketType == types.BucketGeneralPurpose {
		sort.Strings(keys)
	}
	return keys, nil
}

// List applies the filtering/grouping/pagination algorithm of
// spec.md §4.3.6 to the keys under root.
func List(root string, in ListInput, skip skipNames) (ListResult, error) {
	maxKeys := in.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}

	keys, err := listDataKeys(root, in.BucketType, skip)
	if err != nil {
		return ListResult{}, err
	}

	var candidates []string
	for _, k := range keys {
		if in.Prefix != "" && !strings.HasPrefix(k, in.Prefix) {
			continue
		}
		if in.StartAfter != "" && k <= in.StartAfter {
			continue
		}
		candidates = append(candidates, k)
	}

	result := ListResult{}
	seenPrefixes := map[string]bool{}
	count := 0

	for _, k := range candidates {
		if count >= maxKeys {
			result.Truncated = true
			break
		}

		if in.Delimiter != "" {
			suffix := strings.TrimPrefix(k, in.Prefix)
			if idx := strings.Index(suffix, in.Delimiter); idx >= 0 {
				cp := in.Prefix + suffix[:idx+len(in.Delimiter)]
				if !seenPrefixes[cp] {
					seenPrefixes[cp] = true
					result.CommonPrefixes = append(result.CommonPrefixes, cp)
					count++
					result.NextContinuationToken = k
				}
				continue
			}
		}

		result.Keys = append(result.Keys, k)
		count++
		result.NextContinuationToken = k
	}

	if result.Truncated {
		// NextContinuationToken already holds the last *consumed* key
		// from the loop above (property P7); nothing further to do.
	} else {
		result.NextContinuationToken = ""
	}

	sort.Strings(result.CommonPrefixes)
	return result, nil
}
