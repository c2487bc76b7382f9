// Package alog is an asynchronous leveled logger for hot paths.
//
// Log calls format the message and queue it; a background goroutine prints
// it. Callers never wait on terminal or disk I/O.
//
// The package level functions use a process-wide pipeline that is built on
// first use. Call Init to build it with explicit options and Shutdown to
// drain and stop it:
//
//	alog.Init(alog.Options{Colors: true})
//	defer alog.Shutdown()
//
//	alog.Info("loaded %d layers\n", n)
//	alog.Debug("kv cache: %d bytes\n", size) // shown with threshold >= DefaultDebug
//
// Whether a call is submitted at all depends on its verbosity tier and the
// threshold set with SetVerbosityThreshold. DEBUG output that is submitted
// still reaches an attached file even when the console hides it.
//
// Independent pipelines, for tests or isolated components, are created with
// New and released with their Close method.
package alog
