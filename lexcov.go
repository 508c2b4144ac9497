// Package lexcov extracts readable article text from web pages and measures
// how much of it is covered by controlled vocabulary lists such as the NGSL,
// NAWL and NGSL-Spoken.
//
// This package contains domain types, interfaces and the pure algorithms
// (tokenizer, registry, coverage) following Ben Johnson's Standard Package
// Layout. Implementations that depend on third-party libraries live in
// subdirectories named after their primary dependency (e.g., goquery/,
// sqlite/, gemini/).
package lexcov
