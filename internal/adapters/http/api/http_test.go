package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/matchline/internal/adapters/http/api"
	repository "github.com/okian/matchline/internal/adapters/repository"
	model "github.com/okian/matchline/internal/domain/model"
	timeline "github.com/okian/matchline/internal/domain/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockRecorder struct {
	seen map[string]bool
}

func (m *mockRecorder) SeenAndRecord(ctx context.Context, id string) bool {
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[id] {
		return true
	}
	m.seen[id] = true
	return false
}

func (m *mockRecorder) Unrecord(ctx context.Context, id string) {
	if m.seen != nil {
		delete(m.seen, id)
	}
}

func (m *mockRecorder) Size() int64 {
	return int64(len(m.seen))
}

type mockDependencies struct {
	*mockRecorder

	enqueueSuccess bool
	enqueued       []api.Snapshot

	computed map[string]repository.Computed
	readErr  error
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		mockRecorder:   &mockRecorder{},
		enqueueSuccess: true,
		computed:       make(map[string]repository.Computed),
	}
}

func (m *mockDependencies) Enqueue(ctx context.Context, s api.Snapshot) bool {
	if m.enqueueSuccess {
		m.enqueued = append(m.enqueued, s)
		return true
	}
	return false
}

func (m *mockDependencies) lookup(matchID string) (repository.Computed, error) {
	if m.readErr != nil {
		return repository.Computed{}, m.readErr
	}
	c, ok := m.computed[matchID]
	if !ok {
		return repository.Computed{}, repository.ErrNotFound
	}
	return c, nil
}

func (m *mockDependencies) Timeline(ctx context.Context, matchID string) (repository.Computed, error) {
	return m.lookup(matchID)
}

func (m *mockDependencies) Lineups(ctx context.Context, matchID string) (repository.Computed, error) {
	return m.lookup(matchID)
}

func (m *mockDependencies) Matches(ctx context.Context) []string {
	ids := make([]string, 0, len(m.computed))
	for id := range m.computed {
		ids = append(ids, id)
	}
	return ids
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"matches": 0}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		mux := newMux(newMockDependencies())

		Convey("Then the health endpoint should be accessible", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint should be accessible", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the matches endpoint should return an empty list", func() {
			req := httptest.NewRequest("GET", "/matches", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"count":0`)
		})
	})
}

func TestPostSnapshot(t *testing.T) {
	Convey("Given a snapshot intake endpoint", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		post := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("POST", "/snapshots", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("When posting a valid snapshot", func() {
			w := post(`{
				"snapshot_id": "snap-1",
				"match_id": "match-1",
				"status": "finished",
				"incidents": [
					{"kind": "goal", "id": 1, "player_id": 10, "team_id": 100, "minute": 23}
				]
			}`)

			Convey("Then it should be accepted and enqueued", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].MatchID, ShouldEqual, "match-1")
				So(deps.enqueued[0].Incidents, ShouldHaveLength, 1)
				So(*deps.enqueued[0].Incidents[0].PlayerID, ShouldEqual, 10)
			})
		})

		Convey("When posting the same snapshot twice", func() {
			body := `{"snapshot_id": "snap-dup", "match_id": "match-1", "status": "finished"}`
			first := post(body)
			second := post(body)

			Convey("Then the second response should flag the duplicate", func() {
				So(first.Code, ShouldEqual, http.StatusAccepted)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Body.String(), ShouldContainSubstring, `"duplicate":true`)
				So(deps.enqueued, ShouldHaveLength, 1)
			})
		})

		Convey("When posting without a snapshot id", func() {
			w := post(`{"match_id": "match-1", "status": "first-half"}`)

			Convey("Then an id should be generated for the ack", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				var ack struct {
					SnapshotID string `json:"snapshot_id"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &ack), ShouldBeNil)
				So(ack.SnapshotID, ShouldNotBeEmpty)
			})
		})

		Convey("When posting invalid payloads", func() {
			Convey("Then malformed JSON is rejected", func() {
				So(post(`{not json`).Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And a missing match id is rejected", func() {
				So(post(`{"status": "finished"}`).Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And an unknown status is rejected", func() {
				So(post(`{"match_id": "m", "status": "warming-up"}`).Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And a bad substitution kind is rejected", func() {
				w := post(`{
					"match_id": "m", "status": "finished",
					"substitutions": [{"kind": "SWAP", "player_id": 1, "minute": 60}]
				}`)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the queue rejects the snapshot", func() {
			deps.enqueueSuccess = false
			w := post(`{"snapshot_id": "snap-bp", "match_id": "match-1", "status": "finished"}`)

			Convey("Then the caller gets backpressure and the id can be retried", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(deps.seen["snap-bp"], ShouldBeFalse)
			})
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest("GET", "/snapshots", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGetTimeline(t *testing.T) {
	Convey("Given a store with one computed match", t, func() {
		deps := newMockDependencies()
		minute := 23
		playerID := 10
		goal := model.Incident{
			Kind:     model.KindGoal,
			ID:       1,
			PlayerID: &playerID,
			Minute:   minute,
		}
		deps.computed["match-1"] = repository.Computed{
			MatchID:    "match-1",
			SnapshotID: "snap-1",
			BuiltAt:    time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC),
			Entries: []timeline.Entry{
				{Type: timeline.EntrySeparator, Separator: &timeline.Separator{MatchEnd: true}},
				{Type: timeline.EntryIncident, Incident: &goal},
			},
		}
		mux := newMux(deps)

		Convey("When fetching its timeline", func() {
			req := httptest.NewRequest("GET", "/timeline/match-1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the response carries the ordered entries", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					MatchID string `json:"match_id"`
					BuiltAt string `json:"built_at"`
					Entries []struct {
						Type     string `json:"type"`
						MatchEnd bool   `json:"match_end"`
						Incident *struct {
							Kind   string `json:"kind"`
							Minute int    `json:"minute"`
							Period string `json:"period"`
						} `json:"incident"`
					} `json:"entries"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.MatchID, ShouldEqual, "match-1")
				So(resp.BuiltAt, ShouldEqual, "2026-03-14T20:00:00Z")
				So(resp.Entries, ShouldHaveLength, 2)
				So(resp.Entries[0].Type, ShouldEqual, "separator")
				So(resp.Entries[0].MatchEnd, ShouldBeTrue)
				So(resp.Entries[1].Incident, ShouldNotBeNil)
				So(resp.Entries[1].Incident.Kind, ShouldEqual, "goal")
				So(resp.Entries[1].Incident.Minute, ShouldEqual, minute)
				So(resp.Entries[1].Incident.Period, ShouldEqual, "1st")
			})
		})

		Convey("When fetching an unknown match", func() {
			req := httptest.NewRequest("GET", "/timeline/nope", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the match id is missing or nested", func() {
			for _, path := range []string{"/timeline/", "/timeline/a/b"} {
				req := httptest.NewRequest("GET", path, nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the store fails", func() {
			deps.readErr = errors.New("shard offline")
			req := httptest.NewRequest("GET", "/timeline/match-1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestGetLineups(t *testing.T) {
	Convey("Given a store with projected rosters", t, func() {
		deps := newMockDependencies()
		minuteOut := 60
		deps.computed["match-1"] = repository.Computed{
			MatchID:    "match-1",
			SnapshotID: "snap-1",
			BuiltAt:    time.Now(),
			Home: []model.Player{
				{ID: 7, TeamID: 100, Name: "Out Player", Number: 7, OnField: false, MinuteOut: &minuteOut},
			},
		}
		mux := newMux(deps)

		Convey("When fetching its lineups", func() {
			req := httptest.NewRequest("GET", "/lineups/match-1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then home roster state is serialized", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"minute_out":60`)
				So(w.Body.String(), ShouldContainSubstring, `"on_field":false`)
			})
		})

		Convey("When fetching an unknown match", func() {
			req := httptest.NewRequest("GET", "/lineups/nope", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGetMatches(t *testing.T) {
	Convey("Given a store tracking two matches", t, func() {
		deps := newMockDependencies()
		deps.computed["m1"] = repository.Computed{MatchID: "m1"}
		deps.computed["m2"] = repository.Computed{MatchID: "m2"}
		mux := newMux(deps)

		Convey("When listing matches", func() {
			req := httptest.NewRequest("GET", "/matches", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then both ids are present", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Matches []string `json:"matches"`
					Count   int      `json:"count"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Count, ShouldEqual, 2)
				So(resp.Matches, ShouldContain, "m1")
				So(resp.Matches, ShouldContain, "m2")
			})
		})
	})
}
