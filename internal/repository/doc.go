// Package repository exposes member and team persistence and the named
// queries built on top of the query builder.
//
// Reads go through fetch, writes through store. Optional search inputs are
// composed by the filter package, so FindUser, Search and Count share one
// definition of what each input means.
package repository
