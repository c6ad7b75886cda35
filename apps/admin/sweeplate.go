package main

import (
	"context"
	"fmt"
)

// sweepLate runs the late-submission sweep once.
func (cli *commandLine) sweepLate() error {
	count, err := cli.asgSvc.SweepLateSubmissions(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%d submission(s) marked late\n", count)
	return nil
}
