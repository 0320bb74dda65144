// Package s3 uploads run reports to an S3-compatible object store.
//
// The client targets AWS S3 by default. Setting an endpoint points it at any
// S3-compatible service (MinIO, Ceph RGW, Hetzner Object Storage); such
// services usually need path-style addressing.
package s3
