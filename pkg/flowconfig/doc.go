// Package flowconfig loads the per-flow configuration document from a file or a URL.
//
// Sources never cache: each Load observes the document as it is now, so a host that
// edits the document between page loads sees the change on the next load.
package flowconfig
