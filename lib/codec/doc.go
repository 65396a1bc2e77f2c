// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration for the
// boardsync control socket.
//
// JSON is used for everything that leaves the process toward other
// systems: the Matrix Client-Server API, the task board API and the
// persisted bot state. CBOR is used only on the local control socket
// between boardsync and boardsyncctl.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2). Types
// implementing encoding.TextMarshaler, such as ref.RoomID and
// ref.EventID, travel as CBOR text strings.
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// Socket protocol types carry `json` tags only. fxamacker/cbor reads
// them as a fallback, so boardsyncctl can print the same structs with
// --json.
package codec
