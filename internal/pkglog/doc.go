// Package pkglog defines the domain types shared by every component:
// the Entry record, its Action and Scope enums, and the PackageInfo and
// Transaction shapes consumed from package-manager backends.
//
// Entries are immutable once appended to a store. The only state
// transition a logical package ever undergoes is the append of a later
// record with Removed set; nothing is rewritten in place.
package pkglog
