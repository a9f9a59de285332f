// Package errors provides structured, actionable error messages for the
// vtree command line.
//
// Every error carries a code that maps to a short message, a longer
// explanation and a documentation link. Failures from the reconciliation
// core are mapped to codes with Classify:
//
//	if err := inst.SetState(partial); err != nil {
//	    errors.Fprint(os.Stderr, errors.Classify(err, "E202"))
//	}
//
// Scenario and configuration errors can point at the offending line:
//
//	err := errors.New("E140").WithLocationFromYAML("steps.yaml", decodeErr)
//	fmt.Println(err.Format())
//	// ERROR E140: Invalid scenario file
//	//
//	//   steps.yaml:3
//	//
//	//        2 │ - name: add
//	//   →    3 │   state: [oops
//	//        4 │ - name: done
//
// # Error Codes
//
//   - E120-E139: configuration
//   - E140-E159: command line
//   - E200-E219: reconciliation and rendering
package errors
