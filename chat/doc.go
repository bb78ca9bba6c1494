// Package chat answers questions about indexed documents.
//
// A Conversation is an explicit, self-contained history of turns; nothing is
// kept in package-level state. The Assistant retrieves relevant passages via
// hybrid search, folds them together with the conversation history into a
// prompt, and asks the configured analyst.
package chat
