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
	"github.com/nabbar/lamina/types"
)

// StaticUserLookup implements sigv4.UserLookup over the fixed
// Authentication.Users[*] table a config load produces. It is "static"
// because nothing in spec.md §6 describes hot-reloading credentials;
// a new Config (and a new StaticUserLookup) is the unit of change.
type StaticUserLookup struct {
	users map[string]types.User
}

// NewStaticUserLookup indexes cfg's users by access key.
func NewStaticUserLookup(cfg AuthenticationConfig) *StaticUserLookup {
	users := make(map[string]types.User, len(cfg.Users))
	for _, u := range cfg.Users {
		perms := make([]types.BucketPermission, 0, len(u.BucketPermissions))
		for _, p := range u.BucketPermissions {
			perms = append(perms, types.BucketPermission{
				BucketName:  p.BucketName,
				Permissions: p.Permissions,
			})
		}
		users[u.AccessKeyID] = types.User{
			AccessKeyID:      u.AccessKeyID,
			SecretAccessKey:  u.SecretAccessKey,
			Name:             u.Name,
			BucketPermission: perms,
		}
	}
	return &StaticUserLookup{users: users}
}

// Lookup implements sigv4.UserLookup.
func (l *StaticUserLookup) Lookup(accessKeyID string) (types.User, bool) {
	u, ok := l.users[accessKeyID]
	return u, ok
}
