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

package chunked

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	liberr "github.com/nabbar/golib/errors"

	"github.com/nabbar/lamina/s3err"
	"github.com/nabbar/lamina/types"
)

// maxChunkSize bounds a single chunk's in-memory buffer. AWS does not
// publish a hard limit; 16 MiB keeps worst-case memory use well below
// what a single PUT's chunk size ever needs in practice.
const maxChunkSize = 16 * 1024 * 1024

// ChunkSignatureValidator is the subset of *sigv4.ChunkValidator the
// parser needs. Declared locally so chunked never imports sigv4 and
// stays testable with a fake.
type ChunkSignatureValidator interface {
	ValidateChunk(chunkData []byte, claimedSignature string) liberr.Error
}

// Result is the outcome of decoding one AWS-chunked body (spec.md §4.2).
type Result struct {
	Success           bool
	TotalBytesWritten int64
	ETag              string
	Checksums         types.Checksums
	ErrorKind         s3err.Kind
	ErrorMessage      string
}

func failure(kind s3err.Kind, message string, written int64) Result {
	return Result{Success: false, TotalBytesWritten: written, ErrorKind: kind, ErrorMessage: message}
}

// Decode reads the AWS-chunked framing from src, writes every decoded
// byte to sink as it is validated, and hashes the decoded stream for the
// ETag and any requested additional checksum. validator is invoked once
// per chunk (including the zero-length terminator) in strict order.
//
// ctx cancellation aborts cleanly: Decode returns a failed Result and
// writes nothing further; it never partially validates a chunk.
func Decode(ctx context.Context, src *bufio.Reader, sink io.Writer, validator ChunkSignatureValidator, checksum ChecksumRequest) Result {
	hs := newHashSet(checksum.Algorithm)
	var written int64

	for {
		select {
		case <-ctx.Done():
			return failure(s3err.KindInternal, "upload cancelled", written)
		default:
		}

		size, signature, err := readChunkHeader(src)
		if err != nil {
			return failure(s3err.KindInvalidArgument, err.Error(), written)
		}
		if size > maxChunkSize {
			return failure(s3err.KindInvalidArgument, errChunkTooLarge().Error(), written)
		}

		data := make([]byte, size)
		if size > 0 {
			if _, err := io.ReadFull(src, data); err != nil {
				return failure(s3err.KindInvalidArgument, errTruncatedChunk().Error(), written)
			}
		}
		if err := consumeCRLF(src); err != nil {
			return failure(s3err.KindInvalidArgument, errTruncatedChunk().Error(), written)
		}

		if verr := validator.ValidateChunk(data, signature); verr != nil {
			return failure(s3err.KindSignatureDoesNotMatch, verr.Error(), written)
		}

		if size == 0 {
			consumeTrailingHeaders(src)
			break
		}

		n, err := sink.Write(data)
		written += int64(n)
		if err != nil {
			return failure(s3err.KindInternal, err.Error(), written)
		}
		hs.Write(data)
	}

	if checksum.Algorithm != "" && checksum.Expected != "" {
		if got := hs.checksumValue(checksum.Algorithm); got != checksum.Expected {
			return failure(s3err.KindInvalidChecksum, errChecksumMismatch().Error(), written)
		}
	}

	return Result{
		Success:           true,
		TotalBytesWritten: written,
		ETag:              hs.ETag(),
		Checksums:         hs.Checksums(),
	}
}

// readChunkHeader reads one "<hex-size>;chunk-signature=<hex>\r\n" line
// and returns the decoded size and signature.
func readChunkHeader(src *bufio.Reader) (int64, string, error) {
	line, err := src.ReadString('\n')
	if err != nil {
		return 0, "", err
	}
	line = strings.TrimRight(line, "\r\n")

	parts := strings.SplitN(line, ";", 2)
	sizeStr := strings.TrimSpace(parts[0])
	if sizeStr == "" {
		return 0, "", errMalformedChunkHeader()
	}
	size, err := strconv.ParseInt(sizeStr, 16, 64)
	if err != nil || size < 0 {
		return 0, "", errMalformedChunkHeader()
	}

	var signature string
	if len(parts) == 2 {
		for _, ext := range strings.Split(parts[1], ";") {
			ext = strings.TrimSpace(ext)
			if strings.HasPrefix(ext, "chunk-signature=") {
				signature = strings.TrimPrefix(ext, "chunk-signature=")
				break
			}
		}
	}

	return size, signature, nil
}

// consumeCRLF reads the two-byte separator following chunk data.
func consumeCRLF(src *bufio.Reader) error {
	buf := make([]byte, 2)
	if _, err := io.ReadFull(src, buf); err != nil {
		return err
	}
	if buf[0] != '\r' || buf[1] != '\n' {
		return errMalformedChunkHeader()
	}
	return nil
}

// consumeTrailingHeaders drains any trailer lines after the terminator
// chunk, stopping at a blank line or EOF (spec.md §4.2: accepted and
// ignored).
func consumeTrailingHeaders(src *bufio.Reader) {
	for {
		line, err := src.ReadString('\n')
		if err != nil {
			return
		}
		if line == "\r\n" || line == "\n" {
			return
		}
	}
}
