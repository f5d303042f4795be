// Copyright (c) 2019 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
)

// ResolveArgs are the domains to resolve
type ResolveArgs struct {
	Domains []string `positional-arg-name:"domains" required:"1"`
}

// ResolveCmd prints where each domain is routed
type ResolveCmd struct {
	*ResolveArgs `positional-args:"yes" required:"1"`
}

// Execute resolves every domain given on the command line
func (c *ResolveCmd) Execute(args []string) error {
	env, err := newEnvironment(options, nil)
	if err != nil {
		return err
	}
	defer env.close()

	ctx := context.Background()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tDATABASE\tSECTION\tSOURCE\tPRIMARY\tSERVERS")
	for _, domain := range c.Domains {
		res, err := env.facade.Resolve(ctx, domain)
		if err != nil {
			return errors.Wrapf(err, "resolve %q", domain)
		}
		// resolution already updated the factory's table
		section, err := env.base.SectionFor(domain)
		if err != nil {
			return errors.Wrapf(err, "get section for %q", domain)
		}
		lb, err := env.base.GetSectionLB(ctx, section)
		if err != nil {
			return errors.Wrapf(err, "get balancer for %q", domain)
		}
		source := string(res.Source)
		if !res.Resolved() {
			source += " (default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", domain, res.Database, lb.Section(), source, lb.PrimaryServer(), strings.Join(lb.Servers(), ","))
	}
	return w.Flush()
}
