// Package model defines the text generation abstraction used by entry
// functions that delegate replies to a language model. Provider specific
// adapters live in sub-packages (openai, anthropic); handlers depend only on
// the Model interface so providers can be swapped without touching agent
// code.
package model
