package main

import (
	"fmt"
	"text/tabwriter"
)

// Run lists the learned domains for a manufacturer, most confident first.
func (c *DomainsCmd) Run(deps *Dependencies) error {
	domains, err := deps.Domains.FindDomains(deps.Ctx, c.Manufacturer)
	if err != nil {
		return err
	}

	if len(domains) == 0 {
		fmt.Fprintf(deps.Stdout, "No learned domains for %q.\n", c.Manufacturer)
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tCONFIDENCE\tLAST VERIFIED")
	for _, d := range domains {
		fmt.Fprintf(w, "%s\t%d\t%s\n", d.Domain, d.Confidence, d.LastVerified.Format("2006-01-02"))
	}
	return w.Flush()
}
