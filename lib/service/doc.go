// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the process scaffolding of the bridge
// daemon: the Matrix /sync long-poll loop and the local control
// socket.
//
// The control socket speaks a CBOR request-response protocol on a Unix
// socket, one request per connection. A request is a CBOR map with an
// "action" field plus action-specific fields; the response is a
// [Response] envelope. [ServiceClient] is the matching client used by
// the operator CLI. Access is controlled by the socket file's
// permissions.
//
// The package provides building blocks, not a runtime: the daemon
// composes them in its own main().
package service
