// Package pipeline converts an in-memory model.Graph to the backend wire format and back.
//
// The Serializer freezes a graph into a wire.GraphEntity plus the wire.EntityInterface that
// declares its pipeline parameters, registering module and datasource definitions on the way
// through a fingerprint.Resolver so identical definitions are only created once. The
// Deserializer does the reverse for a previously submitted run: node ids of the rebuilt graph
// are the backend ids.
//
// Submitter and Publisher sit on top of the serializer: the first creates and submits a run,
// the second publishes the graph without running it.
//
// Every operation is synchronous. Logging goes through the logr.Logger found in the context.
package pipeline
