// Package docgrab discovers document resources (PDFs by default) linked or
// embedded in a rendered page and retrieves a selected subset to a local
// directory, choosing a retrieval strategy per origin and reporting a
// per-item outcome for every reference in a batch.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package docgrab

// DefaultExtension is the target extension used when none is configured.
const DefaultExtension = ".pdf"
