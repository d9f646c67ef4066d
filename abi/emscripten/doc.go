// Package emscripten is a minimal stand-in for the legacy browser-compiled-C
// ABI shim (§1 non-goal: ABI shim bodies are external collaborators). It
// implements the handful of `env`-module imports a module built with that
// toolchain always needs regardless of which higher-level runtime
// (filesystem, GL, ...) it also pulls in: `abort`, `_emscripten_memcpy_big`,
// and `emscripten_notify_memory_growth`.
package emscripten
