package main

import (
	"fmt"
)

// ---- Order Commands ----

func (c *CLI) orderCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cargoexpress-cli order <subcommand>")
	}

	sub := args[0]
	args = args[1:]

	switch sub {
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("usage: cargoexpress-cli order get <kind> <id>")
		}
		return c.getOrder(args[0], args[1])
	case "status":
		if len(args) < 2 {
			return fmt.Errorf("usage: cargoexpress-cli order status <kind> <id> --status=STATUS [--comment=TEXT]")
		}
		return c.setOrderStatus(args[0], args[1], args[2:])
	case "tracking":
		if len(args) < 2 {
			return fmt.Errorf("usage: cargoexpress-cli order tracking <kind> <id> --number=TRACKING")
		}
		return c.attachTracking(args[0], args[1], args[2:])
	default:
		return fmt.Errorf("unknown order subcommand: %s", sub)
	}
}

func (c *CLI) getOrder(kind, id string) error {
	resp, err := c.get("/api/v1/orders/" + kind + "/" + id)
	if err != nil {
		return err
	}
	printJSON(resp)
	return nil
}

func (c *CLI) setOrderStatus(kind, id string, args []string) error {
	opts := parseArgs(args)
	status := opts["status"]
	if status == "" {
		return fmt.Errorf("--status is required")
	}

	body := map[string]string{"status": status}
	if comment, ok := opts["comment"]; ok {
		body["comment"] = comment
	}

	resp, err := c.post("/api/v1/orders/"+kind+"/"+id+"/status", body)
	if err != nil {
		return err
	}
	printJSON(resp)
	return nil
}

func (c *CLI) attachTracking(kind, id string, args []string) error {
	opts := parseArgs(args)
	number := opts["number"]
	if number == "" {
		return fmt.Errorf("--number is required")
	}

	resp, err := c.post("/api/v1/orders/"+kind+"/"+id+"/tracking", map[string]string{
		"tracking": number,
	})
	if err != nil {
		return err
	}
	printJSON(resp)
	return nil
}
