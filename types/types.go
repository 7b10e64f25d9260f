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

// Package types holds the data model shared by the storage engine,
// multipart lifecycle and gateway facade: buckets, objects, multipart
// uploads and the authentication/permission model.
package types

import "time"

// BucketType controls listing order (spec.md §3, §4.3.6).
type BucketType uint8

const (
	// BucketGeneralPurpose buckets list keys in strict byte-lexicographic order.
	BucketGeneralPurpose BucketType = iota
	// BucketDirectory buckets preserve filesystem enumeration order.
	BucketDirectory
)

// Bucket is the data-model record for a bucket (spec.md §3).
type Bucket struct {
	Name    string
	Type    BucketType
	Created time.Time
	Region  string
	Tags    map[string]string
}

// Checksums holds the optional additional-checksum fields an object or
// part may carry (spec.md §3). Empty string means "not computed".
type Checksums struct {
	CRC32     string
	CRC32C    string
	CRC64NVME string
	SHA1      string
	SHA256    string
}

// IsZero reports whether no checksum field is populated.
func (c Checksums) IsZero() bool {
	return c.CRC32 == "" && c.CRC32C == "" && c.CRC64NVME == "" && c.SHA1 == "" && c.SHA256 == ""
}

// ObjectMeta is the persisted (or synthesized) metadata record for an
// object, matching the "Metadata JSON" shape of spec.md §6.
type ObjectMeta struct {
	BucketName   string
	Key          string
	ETag         string
	Size         int64
	LastModified time.Time
	ContentType  string
	Metadata     map[string]string
	Checksums    Checksums
}

// ObjectInfo is an alias of ObjectMeta; it adds no fields of its own.
type ObjectInfo = ObjectMeta

// PartMetadata is the record kept for one uploaded multipart part
// (spec.md §3, §4.4).
type PartMetadata struct {
	PartNumber   int
	Size         int64
	ETag         string
	LastModified time.Time
	Checksums    Checksums
}

// UploadState is the lifecycle state of a MultipartUpload (spec.md §4.4).
type UploadState uint8

const (
	UploadInitiated UploadState = iota
	UploadCompleted
	UploadAborted
)

// MultipartUpload is the persisted record for one in-progress (or
// terminal) multipart upload (spec.md §3).
type MultipartUpload struct {
	UploadID    string
	BucketName  string
	Key         string
	Initiated   time.Time
	ContentType string
	Metadata    map[string]string
	Parts       map[int]PartMetadata
	State       UploadState
}

// CompletedPart is one element of the ordered part list a client submits
// to CompleteMultipartUpload.
type CompletedPart struct {
	PartNumber int
	ETag       string
}

// BucketPermission grants a user a set of verbs on a bucket
// (spec.md §6, Authentication.Users[*].BucketPermissions[*]).
type BucketPermission struct {
	BucketName  string
	Permissions []string
}

// User is one entry of Authentication.Users[*] (spec.md §6).
type User struct {
	AccessKeyID      string
	SecretAccessKey  string
	Name             string
	BucketPermission []BucketPermission
}
