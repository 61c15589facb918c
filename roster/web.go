/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/solarchallenge-drawbot/internal"
	"github.com/mikeb26/solarchallenge-drawbot/knockout"
)

// FetchRoster scrapes the published entry list and round robin standings and
// merges them into a car list. baseURL is the event site root, e.g.
// https://live.solarchallenge.org/2025.
func FetchRoster(ctx context.Context, baseURL string) ([]knockout.Car, error) {
	client := internal.NewCachedHttpClient(ctx, 15*time.Minute)
	baseURL = strings.TrimRight(baseURL, "/")

	var entriesDoc, standingsDoc *goquery.Document
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entriesDoc, err = fetchDoc(ctx, client, baseURL+"/entries")
		return err
	})
	g.Go(func() error {
		var err error
		standingsDoc, err = fetchDoc(ctx, client, baseURL+"/standings")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("unable to fetch roster: %w", err)
	}

	cars, err := parseEntries(entriesDoc)
	if err != nil {
		return nil, err
	}
	points, err := parseStandings(standingsDoc)
	if err != nil {
		return nil, err
	}
	for i := range cars {
		cars[i].Points = points[cars[i].ID]
	}

	return cars, nil
}

// fetchDoc gets the HTML document at the given URL using the configured
// User-Agent.
func fetchDoc(ctx context.Context, client *http.Client,
	url string) (*goquery.Document, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// parseEntries extracts the car list from the entry list page. Expected row
// layout: car id, school id, car name, scrutineered, present (round robin),
// present (knockout).
func parseEntries(doc *goquery.Document) ([]knockout.Car, error) {
	var cars []knockout.Car
	var parseErr error

	doc.Find("table#entries tbody tr").Each(func(i int, row *goquery.Selection) {
		if parseErr != nil {
			return
		}
		cells := row.Find("td").Map(func(_ int, s *goquery.Selection) string {
			return strings.TrimSpace(s.Text())
		})
		if len(cells) < 6 {
			return
		}

		car, err := parseCarRecord(append(cells[:6], "0"))
		if err != nil {
			parseErr = fmt.Errorf("entry list row %d: %w", i+1, err)
			return
		}
		cars = append(cars, car)
	})

	if parseErr != nil {
		return nil, parseErr
	}
	if len(cars) == 0 {
		return nil, fmt.Errorf("no entries found on entry list page")
	}
	return cars, nil
}

// parseStandings extracts the round robin points per car id from the
// standings page.
func parseStandings(doc *goquery.Document) (map[int]int, error) {
	points := make(map[int]int)
	var parseErr error

	doc.Find("table#standings tbody tr").Each(func(i int, row *goquery.Selection) {
		if parseErr != nil {
			return
		}
		cells := row.Find("td").Map(func(_ int, s *goquery.Selection) string {
			return strings.TrimSpace(s.Text())
		})
		if len(cells) < 2 {
			return
		}

		id, err := strconv.Atoi(cells[0])
		if err != nil {
			parseErr = fmt.Errorf("standings row %d: bad car id %q", i+1,
				cells[0])
			return
		}
		pts, err := strconv.Atoi(cells[len(cells)-1])
		if err != nil {
			parseErr = fmt.Errorf("standings row %d: bad points %q", i+1,
				cells[len(cells)-1])
			return
		}
		points[id] = pts
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return points, nil
}
