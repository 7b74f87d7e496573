package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) reconcile() error {
	res, err := cli.sync.ReconcileAll(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "courses: %d, reports updated: %d, reports created: %d, failures: %d\n",
		res.Courses, res.ReportsUpdated, res.ReportsCreated, res.Failures)
	return nil
}
