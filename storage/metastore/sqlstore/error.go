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

package sqlstore

import (
	liberr "github.com/nabbar/golib/errors"
)

const (
	codeOpenFailed liberr.CodeError = iota + liberr.MinAvailable + 500
	codeMigrateFailed
	codeQueryFailed
)

func init() {
	liberr.RegisterIdFctMessage(codeOpenFailed, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case codeOpenFailed:
		return "failed opening sqlite metadata store"
	case codeMigrateFailed:
		return "failed migrating sqlite metadata store schema"
	case codeQueryFailed:
		return "sqlite metadata store query failed"
	default:
		return ""
	}
}

func errOpenFailed(parent error) liberr.Error    { return codeOpenFailed.Error(parent) }
func errMigrateFailed(parent error) liberr.Error { return codeMigrateFailed.Error(parent) }
func errQueryFailed(parent error) liberr.Error   { return codeQueryFailed.Error(parent) }
