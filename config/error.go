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

package config

import (
	liberr "github.com/nabbar/golib/errors"
)

const (
	codeLoadFailed liberr.CodeError = iota + liberr.MinAvailable + 1000
	codeUnmarshalFailed
	codeUnsupportedStorageType
	codeUnsupportedLockManager
	codeInvalidUser
)

func init() {
	liberr.RegisterIdFctMessage(codeLoadFailed, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case codeLoadFailed:
		return "config could not be loaded"
	case codeUnmarshalFailed:
		return "config could not be decoded into the expected shape"
	case codeUnsupportedStorageType:
		return "config names a StorageType with no backing implementation"
	case codeUnsupportedLockManager:
		return "config names a LockManager with no backing implementation"
	case codeInvalidUser:
		return "config names an Authentication user with a missing field"
	default:
		return ""
	}
}

func errLoadFailed(parent error) liberr.Error      { return codeLoadFailed.Error(parent) }
func errUnmarshalFailed(parent error) liberr.Error { return codeUnmarshalFailed.Error(parent) }

func errUnsupportedStorageType() liberr.Error { return codeUnsupportedStorageType.Error() }
func errUnsupportedLockManager() liberr.Error { return codeUnsupportedLockManager.Error() }
func errInvalidUser() liberr.Error            { return codeInvalidUser.Error() }
