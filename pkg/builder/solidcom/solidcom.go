// Package solidcom implements the builder contract by driving the
// SolidWorks COM automation API through go-ole, producing native .sldprt
// parts. It only functions on Windows hosts with SolidWorks installed; on
// every other platform a stub New is compiled instead, so the registry can
// record the engine as present-but-unavailable rather than crashing.
package solidcom

import "errors"

// ErrCOMUnavailable indicates the SolidWorks COM driver cannot be used on
// this host, either because the platform has no COM or because the
// SldWorks.Application ProgID is not registered.
var ErrCOMUnavailable = errors.New("SolidWorks COM automation is not available on this host")

// progID is the COM registration the adapter binds to.
const progID = "SldWorks.Application"
