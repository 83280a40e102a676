package main

import (
	"fmt"
)

// ---- Session Commands ----

func (c *CLI) loginCommand(args []string) error {
	opts := parseArgs(args)
	token := opts["token"]
	key := opts["key"]
	if token == "" || key == "" {
		return fmt.Errorf("usage: cargoexpress-cli login --token=TOKEN --key=ACCESS_KEY")
	}

	resp, err := c.post("/api/v1/dashboard/login", map[string]string{
		"token":      token,
		"access_key": key,
	})
	if err != nil {
		return err
	}
	printJSON(resp)
	return nil
}

func (c *CLI) sessionCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cargoexpress-cli session <subcommand>")
	}

	sub := args[0]
	args = args[1:]

	switch sub {
	case "me":
		resp, err := c.get("/api/v1/session/me")
		if err != nil {
			return err
		}
		printJSON(resp)
		return nil
	case "refresh":
		opts := parseArgs(args)
		token := opts["token"]
		if token == "" {
			return fmt.Errorf("usage: cargoexpress-cli session refresh --token=REFRESH_TOKEN")
		}
		resp, err := c.post("/api/v1/session/refresh", map[string]string{
			"refresh_token": token,
		})
		if err != nil {
			return err
		}
		printJSON(resp)
		return nil
	case "logout":
		resp, err := c.post("/api/v1/session/logout", nil)
		if err != nil {
			return err
		}
		printJSON(resp)
		return nil
	default:
		return fmt.Errorf("unknown session subcommand: %s", sub)
	}
}
