package main

import (
	"fmt"
)

// ---- Health Commands ----

func (c *CLI) healthCommand(args []string) error {
	sub := "live"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "live":
		resp, err := c.get("/healthz")
		if err != nil {
			return err
		}
		printJSON(resp)
		return nil
	case "ready":
		resp, err := c.get("/ready")
		if err != nil {
			return err
		}
		printJSON(resp)
		return nil
	default:
		return fmt.Errorf("unknown health subcommand: %s", sub)
	}
}
