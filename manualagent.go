// Package manualagent locates and verifies official PDF user manuals for
// consumer appliances given a manufacturer name and model identifier.
//
// Discovery runs a two-stage protocol: a direct keyword search for PDF
// manuals, then a bounded recursive crawl of manufacturer support pages with
// LLM-assisted link classification. Verified results feed a self-learning
// cache of manufacturer-owned domains that improves future lookups.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, goquery/).
package manualagent
