// Package reindex re-embeds stored chunk records with a new or updated
// embedding model. Stale vectors make searches fail with a dimension
// mismatch, so this is the recovery path after switching models.
//
// Records are processed in id-ordered batches with retry and exponential
// backoff; a checkpoint is saved after every batch so an interrupted run
// resumes where it stopped.
package reindex
