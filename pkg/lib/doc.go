// Package lib provides a Go SDK for simulating multi-stage database operations.
//
// Each operation goes through an ordered list of stages resolved from a catalog
// by resource and operation kind. A single scheduler advances every live
// operation on each tick; a stage is completed when it reaches 100% and the
// operation finishes when the last stage is completed. Finished operations are
// journaled in a history.
//
// # Quick Start
//
// Create a client, run the scheduler and start operations:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	go client.Run(ctx)
//
//	id, _ := client.StartOperation(ctx, lib.StartOperationOpts{
//	    ResourceKind:  "rds",
//	    OperationKind: "migration",
//	})
//
//	op, _ := client.GetOperation(ctx, id)
//	fmt.Printf("%s: %.0f%%\n", op.ID, op.OverallProgress)
//
// # Catalog
//
// The built-in catalog has migration, upstep, creation and modification stages
// for any resource, and a specific migration for "rds". Custom entries are
// merged on top:
//
//	client, _ := lib.New(ctx, lib.Config{
//	    Catalog: []lib.CatalogEntry{{
//	        ResourceKind:  lib.WildcardResourceKind,
//	        OperationKind: "failover",
//	        Stages: []lib.Stage{
//	            {ID: "promote", Name: "Promote replica"},
//	            {ID: "dns", Name: "Switch DNS"},
//	        },
//	    }},
//	})
//
// # Manual Ticks
//
// Instead of [Client.Run], the simulation can be driven with [Client.Tick],
// which makes progress deterministic in tests:
//
//	for i := 0; i < 50; i++ {
//	    client.Tick(ctx)
//	}
//
// # History
//
// Finished operations are kept in memory by default, or in SQLite when
// [Config].HistoryDBPath is set:
//
//	records, _ := client.ListHistory(ctx, nil)
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: The operation is not live.
//   - [ErrAlreadyExists]: An operation with the same ID is already live.
//   - [ErrNotValid]: Invalid input (e.g. an invalid catalog entry).
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines.
package lib
