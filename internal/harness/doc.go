// Package harness runs YAML simulation scenarios.
//
// A scenario names a netlist (a file or inline records), probe values
// expected after construction, and a list of steps. Each step clocks,
// un-clocks or resets the simulator, optionally several times, and may
// expect probe values or an error afterwards. Every operation appends a
// TraceEvent with the resulting cycle and probe readings, so the whole run
// can be compared against a golden file.
//
// Example scenario:
//
//	name: register_delay
//	description: register output lags its input by one cycle
//	netlist: ../netlists/reg_chain.json
//	expect: {p_reg: 0}
//	steps:
//	  - do: clock
//	    expect: {p_reg: 3}
//	  - do: unclock
//	    times: 2
//	    expect_error: history_underflow
//
// Usage:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/register_delay.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
