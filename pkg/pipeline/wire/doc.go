// Package wire declares the backend wire schema: the graph entity submitted for a run, its
// parameter interface, and the structured-interface records the module and datasource
// registries exchange. Types carry JSON tags matching the backend field names.
package wire
