package testfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// retrieveTimelines fetches the computed timeline for every submitted
// match.
func retrieveTimelines(ctx context.Context, config *Config, snapshots []Snapshot, stats *Stats) ([]TimelineResponse, error) {
	log.Printf("retrieving %d timelines...", len(snapshots))

	client := newHTTPClient(config.Timeout)
	timelines := make([]TimelineResponse, 0, len(snapshots))

	for _, snap := range snapshots {
		resp, err := client.Get(ctx, config.BaseURL+"/timeline/"+snap.MatchID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch timeline for %s: %w", snap.MatchID, err)
		}
		body, err := readResponseBody(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to read timeline for %s: %w", snap.MatchID, err)
		}
		if resp.StatusCode != StatusOK {
			return nil, fmt.Errorf("timeline fetch for %s returned status %d", snap.MatchID, resp.StatusCode)
		}

		var timeline TimelineResponse
		if err := json.Unmarshal(body, &timeline); err != nil {
			return nil, fmt.Errorf("failed to decode timeline for %s: %w", snap.MatchID, err)
		}
		timelines = append(timelines, timeline)
	}

	stats.TimelinesRetrieved = len(timelines)
	return timelines, nil
}

// verifyTimelines checks the structural invariants of every retrieved
// timeline.
func verifyTimelines(config *Config, timelines []TimelineResponse, stats *Stats) error {
	log.Println("verifying timelines...")

	for _, timeline := range timelines {
		violations := verifyOrdering(timeline)
		violations += verifyNoStandaloneAssists(timeline)
		if violations == 0 {
			stats.TimelinesVerified++
			if config.Verbose {
				log.Printf("timeline for %s verified (%d entries)", timeline.MatchID, len(timeline.Entries))
			}
		} else {
			stats.OrderingViolations += violations
			log.Printf("timeline for %s has %d violations", timeline.MatchID, violations)
		}
	}

	if stats.OrderingViolations > 0 {
		return fmt.Errorf("%d timelines failed verification", len(timelines)-stats.TimelinesVerified)
	}

	log.Printf("all %d timelines verified", stats.TimelinesVerified)
	return nil
}

// verifyOrdering checks that incident minutes are non-increasing between
// separators.
func verifyOrdering(timeline TimelineResponse) int {
	violations := 0
	lastMinute := -1

	for _, entry := range timeline.Entries {
		switch entry.Type {
		case "separator":
			lastMinute = -1
		case "incident":
			if entry.Incident == nil {
				violations++
				continue
			}
			if lastMinute >= 0 && entry.Incident.Minute > lastMinute {
				violations++
			}
			lastMinute = entry.Incident.Minute
		}
	}

	return violations
}

// verifyNoStandaloneAssists checks that assists only appear as goal
// decorations, never as their own timeline entries.
func verifyNoStandaloneAssists(timeline TimelineResponse) int {
	violations := 0
	for _, entry := range timeline.Entries {
		if entry.Type != "incident" || entry.Incident == nil {
			continue
		}
		if entry.Incident.Kind == "assist" {
			violations++
		}
	}
	return violations
}
