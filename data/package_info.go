// Package data reads test case files: JSON or YAML documents listing the inputs for a function
// under test, which can be run with the expectations case runners.
//
// A case file looks like this:
//
//	key: parseDuration
//	constants:
//	  UNIT: ms
//	parameters:
//	  - AMOUNT: 1
//	  - AMOUNT: 250
//	cases:
//	  - name: plain <AMOUNT>
//	    input: "<AMOUNT><UNIT>"
//	  - name: negative <AMOUNT>
//	    inputs: ["-<AMOUNT><UNIT>"]
//	    skip: true
//
// "key" is the top key that the cases are recorded under; if it is omitted, the name of the
// function under test is used. A file may also be just the list of cases.
//
// Any "<NAME>" in the file is replaced by the constant or parameter of that name. When a quoted
// string consists of nothing but the placeholder, it is replaced by the JSON value itself, so
// "<AMOUNT>" above becomes a number. If there are parameters, the cases are repeated once per
// parameter set. A list of lists of parameter sets produces every combination of one set from
// each list.
package data
