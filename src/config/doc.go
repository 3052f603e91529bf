// Package config defines the configuration of the address book.
//
// Whether the address book is embedded in a node or driven by the peerbook
// command, it uses the Config object defined in this package to store and
// forward configuration options. Paths in the Config are resolved against
// Config.DataDir, where the following files may live:
//
//  p2p_state.bin // the peer store, written by the address book.
//  seeds.json // (optional) peers to start from when there is no peer store.
//  peerbook.toml // (optional) configuration file read by the peerbook command.
package config
