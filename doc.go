// Package portal lets components react to elements outside their own
// document subtree.
//
// A component is a Controller with a string identifier. Markup declares
// bindings with data attributes: data-<identifier>-target names an element
// as a target, data-action carries event-to-method directives, and
// data-<identifier>-<name>-param attributes attach parameters that arrive
// on the action's event. On their own, controllers only see their root's
// subtree.
//
// A Relay widens that scope. Syncing a controller makes the relay index
// every matching target binding in the relay subtree, deliver connected
// and disconnected hooks as bindings appear and disappear, and rewrite
// action directives for owned identifiers into proxy tokens routed through
// shared listeners on the relay element. The original directives are kept
// in data-forwarded-action, so the rewrite is reversible and ownership is
// re-checked at every invocation. Unsyncing the last instance of an
// identifier restores the markup exactly.
//
// Everything runs single-threaded on the document's event loop
// (lib/loop): mutation records are delivered asynchronously, refreshes
// coalesce per tick, and owner waits retry on ticks before falling back to
// interval polling. The relay is not safe for concurrent use.
//
// Server-side rendering helpers (TargetAttrs, ActionAttrs, ParamAttrs)
// build the data attributes as templ.Attributes, and cmd/portalgen
// generates typed accessor wrappers from a component schema.
package portal
