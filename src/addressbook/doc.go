// Package addressbook keeps the peers a node knows about and the peers it has
// banned, and persists them across restarts.
//
// The AddressBook owns a white list, a gray list and a ban table. They are
// only touched from the AddressBook's event loop: public methods hand a
// closure to the loop and wait for it to run. The loop also triggers a
// checkpoint of the state every Config.SaveInterval, and a final save happens
// on Shutdown. At most one checkpoint is in flight at any time; a tick that
// finds the previous save still running is skipped.
//
// Startup policy
//
// Init loads the peer store before the loop starts. A missing file is a first
// run: the address book starts empty, seeded from Config.SeedFile when that
// file exists. Any other failure, in particular a file that does not decode,
// is returned to the caller rather than mistaken for an empty state.
//
// Bans are persisted as the time they had left. Init turns them back into
// expiries against a single reading of the clock and drops those with no time
// left.
package addressbook
