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

// Package chunked decodes the AWS-chunked wire framing used by
// STREAMING-AWS4-HMAC-SHA256-PAYLOAD uploads and streams the decoded
// bytes to a sink while hashing them (spec.md §4.2).
//
// Decode is pull-based: it reads chunk headers and bodies directly off a
// bufio.Reader and writes decoded bytes straight to the sink as they
// arrive, so memory use stays bounded to one chunk regardless of object
// size. Every chunk's signature is checked through a sigv4.ChunkValidator
// before its bytes are considered durable input; a failing chunk aborts
// the whole pipeline and the caller is responsible for discarding
// whatever the sink already received (the storage engine does this by
// never renaming an aborted temp file into place).
package chunked
