// Package slash turns lines like "/ban @troll 2h spamming" into safe,
// auditable actions. It is a transport-agnostic engine: a Registry resolves
// triggers and aliases to command definitions, a quote-aware tokenizer and a
// typed argument binder parse the input, and an Executor gates on permissions
// and channel context before dispatching to the command's action.
//
// The engine never mutates external state. Every invocation produces a
// CommandResult whose SideEffects slice describes, declaratively, what the
// host application should do (send a message, set slow mode, open a modal).
// The single exception is the webhook action, which performs its HTTP call
// inline under a bounded timeout.
//
// How commands are registered with a chat platform and how side effects are
// applied is defined by adapters that wrap this package.
package slash
