// Package heritage scrapes a heritage-site register into structured records.
// It discovers the range of record IDs from the register's index page,
// fetches and parses each record's detail page, and streams the successful
// records into a single well-formed output artifact while routing per-record
// failures to a separate diagnostic stream.
//
// This package contains domain types, pure text functions and interfaces
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/, http/,
// sqlite/).
package heritage
