package main

import (
	"encoding/json"
	"fmt"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// Run executes discovery for one appliance and prints the result as JSON.
// A failed discovery is still a successful command run: the candidate list
// is the diagnostic output support works from.
func (c *FindCmd) Run(deps *Dependencies) error {
	req := manualagent.DiscoveryRequest{
		Manufacturer: c.Manufacturer,
		ModelNumber:  c.Model,
		Category:     c.Category,
		KnownDomains: c.Domain,
	}

	result, err := deps.Discoverer.Discover(deps.Ctx, req)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(out))
	return nil
}
