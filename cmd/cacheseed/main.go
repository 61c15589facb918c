/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mikeb26/solarchallenge-drawbot/roster"
)

// this program exists just to seed the http cache for the event sites so the
// bot does not hit the live timing pages on every interaction

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %v <event site root> ...\n", os.Args[0])
		os.Exit(1)
	}

	for _, url := range os.Args[1:] {
		cars, err := roster.FetchRoster(ctx, url)
		time.Sleep(2 * time.Second) // avoid pegging the timing server
		if err != nil {
			// best effort
			continue
		}

		fmt.Printf("seeded %v (%v cars)\n", url, len(cars))
	}
}
