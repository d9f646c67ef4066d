package objcache

import "hash/fnv"

// CodeKey computes the 64-bit digest §4.8 keys every cache entry behind:
// a hash of the (backend version, runtime version) tuple that produced it.
// Changing either string moves every previously cached artifact behind a
// different key, making it invisible without deleting anything. FNV-64a is
// used rather than maphash because the key must agree across separate
// process invocations sharing the same cache directory, and maphash's seed
// is explicitly documented as unstable across processes.
func CodeKey(backendVersion, runtimeVersion string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(backendVersion))
	h.Write([]byte{0})
	h.Write([]byte(runtimeVersion))
	return h.Sum64()
}
