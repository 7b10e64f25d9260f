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
	"path"
	"strings"
)

// DefaultContentType is used when a key's extension (or full name, for
// dotfiles like ".gitignore") is not recognized.
const DefaultContentType = "application/octet-stream"

// extensionContentType is the non-exhaustive table of spec.md §4.3.5.
var extensionContentType = map[string]string{
	".txt":        "text/plain",
	".log":        "text/plain",
	".dockerfile": "text/plain",
	".gitignore":  "text/plain",
	".json":       "application/json",
	".xml":        "text/xml",
	".html":       "text/html",
	".css":        "text/css",
	".js":         "text/javascript",
	".yaml":       "text/yaml",
	".yml":        "text/yaml",
	".pdf":        "application/pdf",
	".jpg":        "image/jpeg",
	".jpeg":       "image/jpeg",
	".png":        "image/png",
	".mp4":        "video/mp4",
	".mp3":        "audio/mpeg",
	".zip":        "application/x-zip-compressed",
}

// DetectContentType guesses a content-type from an object key's
// extension, falling back to DefaultContentType. Dotfiles with no
// further extension (".gitignore") are matched on their full base name.
func DetectContentType(key string) string {
	base := strings.ToLower(path.Base(key))

	if ct, ok := extensionContentType[base]; ok {
		return ct
	}

	ext := path.Ext(base)
	if ct, ok := extensionContentType[ext]; ok {
		return ct
	}

	return DefaultContentType
}
