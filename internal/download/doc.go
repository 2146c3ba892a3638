// Package download mirrors fetched documents to the local filesystem,
// reproducing the site's path structure under a root directory.
package download
