// Package model defines the declarative field tree the form engine consumes
// and the value/error shapes it produces. Host renderers adapt their own
// widget trees into Node values before handing them to pkg/form; the engine
// never inspects host-specific node types. A Node is a tagged variant: text
// fields and checkboxes carry a name, an initial value and an optional
// validation kind, containers only group children. Field values are plain
// strings (text) or bools (checkbox) so snapshots stay JSON friendly.
package model
