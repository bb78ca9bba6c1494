// Package analysis provides document-level intelligence on top of the index:
// category classification, cross-document similarity, and LLM-backed
// summaries and comparisons.
package analysis
