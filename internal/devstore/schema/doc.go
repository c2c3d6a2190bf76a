// Package schema declares the lifecycle behavior of the directory's
// documents: validation, derived fields, password hashing, cascade deletes
// and the aggregate events emitted after courses and reviews change.
package schema
