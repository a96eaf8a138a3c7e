// Package ir provides the in-memory representation of a project
// metadata document.
//
// A document is a tree of nodes with TOML-compatible value types:
// null, boolean, number, string, timestamp, array, and object. Objects
// preserve field order. Each node keeps a link to its parent so that
// error messages can name the full path of the offending value.
//
// Nodes are created by the parse package from TOML, YAML, or JSON
// input, or programmatically via the From* constructors. Values are
// addressed with dotted keys ("tool.tyranno.data") via Access/Get, or
// with path expressions ("$.project.urls[0]") via GetPath/ListPath.
//
// The tree is treated as immutable for the duration of a sync run;
// functions that need to modify a value operate on clones.
package ir
