// Package s3 uploads run reports to S3-compatible object storage.
//
// With no endpoint configured the client talks to AWS S3 and uses the
// default AWS credential chain unless static keys are given. A custom
// endpoint (MinIO, Hetzner Object Storage) switches to path-style addressing.
package s3
