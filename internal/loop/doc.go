// Package loop defines the closed-loop control protocol and its driver.
//
// One step of the loop is a plain call/return round-trip: the driver asks
// the [Controller] for an action given the current observation and meal
// disturbance, applies it to the [Environment], and records the outcome
// as a [StepRecord]:
//
//	d := loop.NewDriver(env, ctrl, loop.WithWriter(report.NewCSVFile("out.csv")))
//	result, err := d.Run(1440, nil)
//
// Controller state is opaque to the driver and threaded explicitly
// through every Decide call, so stateless and stateful policies share one
// contract. A run is single-threaded and reproducible: the same
// environment configuration (including any seed the environment consumes)
// and the same initial controller state yield the same record sequence.
package loop
