// Package memory defines the Provider interface a session uses to keep its
// transcript: the ordered user/assistant turns sent as history with every
// chat call. [Provider.AppendMessages] stores a batch atomically, so a
// committed exchange is never visible half-written.
//
// Two implementations ship with the module:
// [github.com/leofalp/puter-go/providers/memory/inmemory] for process memory
// and [github.com/leofalp/puter-go/providers/memory/sqlitememory] for a
// transcript that survives restarts.
package memory
