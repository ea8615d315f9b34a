// Package schema compiles trivial JSON Schemas into runtime validators.
//
// Callers send a response model as a JSON Schema over the wire. The compiled
// form serves two purposes: a normalized schema document for providers with
// native structured output support, and validation of the JSON the model
// returns for providers without it.
package schema
