// Package errors provides structured, coded errors for livetree.
//
// Every fatal condition raised by the host layer carries a registered code
// that maps to a category, a short message and a longer explanation:
//   - precondition: the caller broke a contract (wrong placeholder node,
//     re-rendering a host that renders once, unsupported keyed mutation,
//     duplicate local names, ref handler mismatches)
//   - classification: a render value the dispatcher cannot categorize
//   - invariant: internal bookkeeping reached a state it must never reach
//   - config: the CLI configuration file is invalid
//
// # Usage
//
//	err := errors.New("H001").WithValue(node)
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR H001: Placeholder is not a comment node
//	//
//	//   A host placeholder must be a comment marker created by the parent.
//	//
//	//   Value: <div>
//
// Host code raises these errors with panic at the point of violation;
// the root recovers them and returns them to its caller.
package errors
