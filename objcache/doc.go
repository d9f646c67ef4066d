// Package objcache implements §4.8's object cache contract: a persistent
// store a compiler.Backend may consult, keyed by (module bytes hash,
// codeKey) where codeKey is a 64-bit digest of the backend/runtime version
// tuple that produced the cached artifact. Any version-tuple change moves
// every entry behind a different codeKey, making stale entries invisible
// rather than requiring an explicit invalidation pass.
//
// This is an external-collaborator contract, not core runtime logic (§1
// non-goal: "the on-disk compiled-code cache" is out of scope as an
// internal algorithm), so it is implemented directly on the standard
// library (os, path/filepath, encoding/hex, hash/fnv) rather than a third-party
// embedded-database driver: nothing in the pack ships one, and the
// contract itself — open/get/put keyed by a codeKey — does not need
// transactions, secondary indexes, or concurrent-writer isolation beyond
// what a mutex and a directory of files already provide.
package objcache
