// Package peerstore persists the state of an address book to a single file
// and restores it at startup.
//
// The state is the white list, the gray list, and the ban table. Ban expiries
// are instants on the process's monotonic clock, which means nothing after a
// restart, so they are stored as the time that was left on each ban when the
// file was written:
//
//	stored = max(0, expiry - T0)   // T0: read once per Save
//	expiry' = T1 + stored          // T1: read once by the caller after Load
//
// A restored expiry is late by the time the node spent down, which is the
// price of a relative encoding. Bans that had already lifted are stored with
// 0 remaining; dropping them is up to the caller.
//
// File layout
//
//	magic "PBKF" | version | flags | uvarint(len(payload)) | payload | sha256
//
// The payload is the msgpack encoding of the schema of the given version,
// with structs written as arrays in declaration order; the schema is the wire
// contract. Flag bit 0 marks a zstd compressed payload. The trailing sha256
// covers every preceding byte, so a torn or bit-flipped file fails to decode
// instead of producing wrong peers.
//
// Blocking work
//
// Save and Load never touch the disk on the calling goroutine. They hand the
// file operation to a bounded Pool and return a future. Work handed to the
// pool always runs to completion; a caller that stops waiting only forfeits
// the result.
//
// Writes go to a temporary file in the destination directory which is synced
// and then renamed over the destination. A crash leaves either the old file
// or the new one in place, plus possibly a stray temporary file.
//
// The Store assumes it is the only writer of its path. Concurrent Saves on
// the same Store are serialized when Config.SerializeSaves is set; otherwise
// the last rename wins.
package peerstore
