// Package harness runs YAML query scenarios against a fresh database.
//
// A scenario names a fixture (the built-in roster by default) and a list of
// steps. Each step runs one repository query and states what it expects:
//
//	name: find_user
//	description: optional name and age filters
//	steps:
//	  - name: both filters
//	    kind: search
//	    search: {name: member2, age: 20}
//	    expect:
//	      names: [member2]
//	  - name: ambiguous lookup
//	    kind: one
//	    search: {age: 30}
//	    expect:
//	      error: non_unique
//
// Every scenario gets its own SQLite database, so scenarios never see each
// other's writes. Outcomes can also be compared against golden files (see
// RunWithGolden).
package harness
