// mockgen writes a sheet-values fixture file in the batchGet response shape,
// so the dashboard can run against SHEETS_FIXTURE_FILE without credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"
)

type valueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

func main() {
	days := flag.Int("days", 90, "Number of calendar days to generate, ending today")
	seed := flag.Int64("seed", 42, "Random seed for reproducible fixtures")
	out := flag.String("out", "fixture.json", "Output file path")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	end := time.Now()
	start := end.AddDate(0, 0, -*days+1)

	// Column layout mirrors the production workbook (A..K).
	contentHeaders := []any{
		"Date", "Connections", "Posts", "Comments", "J_Comments", "A_Comments",
		"Impressions", "Likes", "Profile_Views", "Followers",
	}
	outreachHeaders := []any{
		"Date", "LI_Erstnachricht", "LI_FollowUp", "Calls", "Emails", "Replies",
		"Meetings", "Offers", "J_Erstnachricht", "A_Erstnachricht", "UW_Proposals",
	}

	content := [][]any{contentHeaders}
	outreach := [][]any{outreachHeaders}
	termine := [][]any{{"Date"}}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		// Weekends stay mostly empty, like real manual entry.
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			if rng.Intn(4) != 0 {
				continue
			}
		}
		date := d.Format("2.1.2006")

		comments := rng.Intn(20)
		jPart := rng.Intn(comments + 1)
		content = append(content, []any{
			date,
			strconv.Itoa(20 + rng.Intn(60)),
			strconv.Itoa(rng.Intn(3)),
			strconv.Itoa(comments),
			strconv.Itoa(jPart),
			strconv.Itoa(comments - jPart),
			strconv.Itoa(500 + rng.Intn(4000)),
			strconv.Itoa(rng.Intn(120)),
			strconv.Itoa(rng.Intn(80)),
			strconv.Itoa(rng.Intn(10)),
		})

		first := 10 + rng.Intn(30)
		jFirst := rng.Intn(first + 1)
		// Occasional comma decimals, as entered by hand.
		proposals := fmt.Sprintf("%d,%d", rng.Intn(5), rng.Intn(10))
		outreach = append(outreach, []any{
			date,
			strconv.Itoa(first),
			strconv.Itoa(rng.Intn(25)),
			strconv.Itoa(rng.Intn(8)),
			strconv.Itoa(rng.Intn(40)),
			strconv.Itoa(rng.Intn(15)),
			strconv.Itoa(rng.Intn(4)),
			strconv.Itoa(rng.Intn(3)),
			strconv.Itoa(jFirst),
			strconv.Itoa(first - jFirst),
			proposals,
		})

		if rng.Intn(3) == 0 {
			termine = append(termine, []any{date})
		}
	}

	doc := map[string]any{
		"valueRanges": []valueRange{
			{Range: "Content!A1:K", Values: content},
			{Range: "Outreach!A1:K", Values: outreach},
			{Range: "Termine!A1:K", Values: termine},
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode fixture: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d days of fixture data to %s\n", *days, *out)
}
