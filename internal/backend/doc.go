// Package backend gives the rest of the system uniform access to
// heterogeneous package managers.
//
// Every integration implements the full Backend contract on its own:
// an availability probe, installed-package enumeration, and translation
// of manager-native transactions into log entries. No backend inherits
// behavior from another; what they share is the capability surface and
// a few parsing helpers.
//
// Discovery enumerates the integrations compiled in for the host
// platform and probes each one. A probe that fails, or even panics,
// marks that backend unavailable without affecting the others.
package backend
