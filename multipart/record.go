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

package multipart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	liberr "github.com/nabbar/golib/errors"

	"github.com/nabbar/lamina/types"
)

const recordFileName = "upload.metadata.json"

func (m *Manager) uploadDir(uploadID string) string {
	return filepath.Join(m.root, uploadID)
}

func (m *Manager) recordPath(uploadID string) string {
	return filepath.Join(m.uploadDir(uploadID), recordFileName)
}

func (m *Manager) partPath(uploadID string, partNumber int) string {
	return filepath.Join(m.uploadDir(uploadID), fmt.Sprintf("part-%d", partNumber))
}

func (m *Manager) readRecord(uploadID string) (rec types.MultipartUpload, found bool, err liberr.Error) {
	data, rErr := os.ReadFile(m.recordPath(uploadID))
	if rErr != nil {
		if os.IsNotExist(rErr) {
			return types.MultipartUpload{}, false, nil
		}
		return types.MultipartUpload{}, false, errReadFailed(rErr)
	}

	if jErr := json.Unmarshal(data, &rec); jErr != nil {
		return types.MultipartUpload{}, false, errRecordCorrupt(jErr)
	}
	return rec, true, nil
}

func (m *Manager) writeRecord(rec types.MultipartUpload) liberr.Error {
	dir := m.uploadDir(rec.UploadID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errWriteFailed(err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return errWriteFailed(err)
	}

	tmp := m.recordPath(rec.UploadID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errWriteFailed(err)
	}
	if err := os.Rename(tmp, m.recordPath(rec.UploadID)); err != nil {
		return errWriteFailed(err)
	}
	return nil
}
