// Package errors provides coded, human-readable diagnostics for the hooks
// runtime and its tooling.
//
// Every runtime failure in package hooks maps to a registered code:
//
//	H001  hook order violation (fatal for the instance)
//	H002  render function panicked
//	H003  effect callback or cleanup panicked
//	H004  state write after unmount (dropped)
//	H005  update storm (pass budget exhausted)
//
// Codes in the C0xx range cover configuration and CLI problems.
//
// # Usage
//
//	d := errors.New("H001").
//	    WithInstance("Counter#3").
//	    WithSuggestion("Call hooks unconditionally at the top of the render function.")
//
//	fmt.Println(d.Format())
//	// Output:
//	// ERROR H001: Hook order changed between renders
//	//
//	//   instance Counter#3
//	//
//	//   Hooks are addressed by call order. ...
//	//
//	//   Hint: Call hooks unconditionally at the top of the render function.
package errors
