// Package model provides the in-memory pipeline graph and the definitions it is built from.
//
// A Graph holds nodes that are either a Module (a computation step built from a ModuleDef)
// or a DataSource (externally stored data built from a DataSourceDef). Nodes expose typed
// input and output ports; edges connect one output port to one input port, and an output
// port can additionally be bound to a named pipeline-level output. Module parameters hold
// literal values or deferred references to pipeline parameters resolved at submission time.
//
// The package also declares the error taxonomy shared by the translation layer.
package model
