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
	"os"
	"path/filepath"

	liberr "github.com/nabbar/golib/errors"

	"github.com/nabbar/lamina/types"
)

// readJSONFile reads and decodes a metadata record at path. A missing
// file is not an error: ok is simply false.
func readJSONFile(path string) (rec types.ObjectMeta, ok bool, err liberr.Error) {
	data, rErr := os.ReadFile(path)
	if rErr != nil {
		if os.IsNotExist(rErr) {
			return types.ObjectMeta{}, false, nil
		}
		return types.ObjectMeta{}, false, errDecodeRecord(rErr)
	}

	rec, uErr := unmarshalRecord(data)
	if uErr != nil {
		return types.ObjectMeta{}, false, errDecodeRecord(uErr)
	}
	return rec, true, nil
}

// writeJSONFile ensures path's parent directory exists, then writes rec
// as JSON. It does not use the atomic temp+rename protocol of the data
// path: metadata write ordering after data write is enough (spec.md
// §4.3.5, §5 "Metadata vs. data"), and a torn metadata write is repaired
// on next read via Invariant D2.
func writeJSONFile(path string, rec types.ObjectMeta) liberr.Error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errWriteRecord(err)
	}

	data, err := marshalRecord(rec)
	if err != nil {
		return errWriteRecord(err)
	}

	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errWriteRecord(err)
	}
	return nil
}

// deleteJSONFile removes path; a missing file is not an error.
func deleteJSONFile(path string) liberr.Error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errWriteRecord(err)
	}
	return nil
}
