// Package podmirror mirrors distributed linked-data index graphs to local
// storage. Servers publish a discovery chain (root document → public type
// index → instance containers → nested indexes → leaf property indexes);
// podmirror walks that chain recursively, persists every index document it
// visits, and reconciles leaf indexes against previously mirrored copies so
// that repeated crawls never lose a reference once observed.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, fs/, sqlite/).
package podmirror
