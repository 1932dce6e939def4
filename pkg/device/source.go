// Package device runs the application state machine: it consumes
// framed commands, drives the sampling loop and owns the flash log
// store and its settings.
package device

// SentinelValue is recorded in place of a reading when the sample
// source fails. A source error is never fatal to the log loop.
const SentinelValue float32 = 99.9

// Source produces one reading per call. Implementations wrap the
// actual sensor driver, which is an external collaborator.
type Source interface {
	Sample() (float32, error)
}

// SourceFunc is the func form of Source.
type SourceFunc func() (float32, error)

// Sample implements Source.
func (f SourceFunc) Sample() (float32, error) {
	return f()
}
