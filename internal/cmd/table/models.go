// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/openstatehouse/legisync/pkg/legislature"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// LegislationToTableData converts a page of legislation to table format.
func LegislationToTableData(page legislature.Page[legislature.Legislation]) Data {
	rows := make([][]string, 0, len(page.Items))
	for _, l := range page.Items {
		rows = append(rows, []string{
			strconv.FormatInt(int64(l.ID), 10),
			l.ExternalID.String(),
			l.NameID,
			truncate(l.Title, 60),
			l.Status,
			formatTime(l.StatusUpdatedAt),
			strconv.Itoa(len(l.SponsorIDs)),
		})
	}
	return Data{
		Headers:         []string{"ID", "External ID", "Name", "Title", "Status", "Status Updated", "Sponsors"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight},
	}
}

// JurisdictionToTableData converts a chamber reconciliation to table format.
func JurisdictionToTableData(r *pkgsync.JurisdictionResult) Data {
	var rows [][]string
	for _, c := range r.ChambersCreated {
		rows = append(rows, chamberRow(c, "created"))
	}
	for _, c := range r.ChambersUpdated {
		rows = append(rows, chamberRow(c, "existing"))
	}
	return Data{
		Headers:         []string{"ID", "External ID", "Chamber", "State"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft},
	}
}

func chamberRow(c legislature.Chamber, state string) []string {
	return []string{strconv.FormatInt(int64(c.ID), 10), c.ExternalID.String(), c.Name, state}
}

// SessionsToTableData converts a session reconciliation to table format.
func SessionsToTableData(r *pkgsync.SessionsResult) Data {
	var rows [][]string
	for _, s := range r.Created {
		rows = append(rows, sessionRow(s, "created"))
	}
	for _, s := range r.Updated {
		rows = append(rows, sessionRow(s, "updated"))
	}
	return Data{
		Headers:         []string{"ID", "External ID", "Session", "Starts", "Ends", "Chambers", "State"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft},
	}
}

func sessionRow(s legislature.Session, state string) []string {
	return []string{
		strconv.FormatInt(int64(s.ID), 10),
		s.ExternalID.String(),
		s.Name,
		formatTime(s.StartsAt),
		formatTime(s.EndsAt),
		strconv.Itoa(len(s.ChamberIDs)),
		state,
	}
}

// MembersToTableData converts member reconciliations to one row per chamber.
func MembersToTableData(results ...*pkgsync.MembersResult) Data {
	var rows [][]string
	for _, r := range results {
		for _, c := range r.Chambers {
			rows = append(rows, []string{
				r.Session.String(),
				c.Chamber.String(),
				strconv.Itoa(len(c.MaybeNew)),
				strconv.Itoa(len(c.Duplicates)),
				"",
			})
		}
		for _, skipped := range r.SkippedChambers {
			rows = append(rows, []string{r.Session.String(), skipped.String(), "-", "-", "no roster"})
		}
	}
	return Data{
		Headers:         []string{"Session", "Chamber", "Created", "Known", "Note"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft},
	}
}

// LegislationResultsToTableData converts legislation reconciliations to one
// row per session.
func LegislationResultsToTableData(results ...*pkgsync.LegislationResult) Data {
	var rows [][]string
	for _, r := range results {
		rows = append(rows, []string{
			r.Session.String(),
			strconv.Itoa(len(r.Created)),
			strconv.Itoa(len(r.Updated)),
			strconv.Itoa(r.Unchanged),
			strconv.Itoa(r.PagesFetched),
			r.OrderBy,
			strconv.Itoa(r.SkippedSponsors),
		})
	}
	return Data{
		Headers:         []string{"Session", "Created", "Updated", "Unchanged", "Pages", "Order", "Skipped Sponsors"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft, AlignRight},
	}
}

// VotesToTableData converts vote reconciliations to one row per legislation.
func VotesToTableData(results ...*pkgsync.VotesResult) Data {
	var rows [][]string
	for _, r := range results {
		rows = append(rows, []string{
			r.Legislation.String(),
			strconv.Itoa(len(r.Created)),
			strconv.Itoa(len(r.Updated)),
			strconv.Itoa(r.SkippedMemberVotes),
		})
	}
	return Data{
		Headers:         []string{"Legislation", "Created", "Updated", "Skipped Member Votes"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight},
	}
}

// ResultToTableData converts a full sync result to a step summary.
func ResultToTableData(r *pkgsync.Result) Data {
	var rows [][]string
	if r.Chambers != nil {
		rows = append(rows, []string{"chambers", r.Chambers.Summary()})
	}
	if r.Sessions != nil {
		rows = append(rows, []string{"sessions", r.Sessions.Summary()})
	}
	for _, m := range r.Members {
		rows = append(rows, []string{"members", m.Summary()})
	}
	for _, l := range r.Legislation {
		rows = append(rows, []string{"legislation", l.Summary()})
	}
	for _, v := range r.Votes {
		if v.HasChanges() {
			rows = append(rows, []string{"votes", v.Summary()})
		}
	}
	return Data{
		Headers: []string{"Step", "Summary"},
		Rows:    rows,
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return fmt.Sprintf("%s…", string([]rune(s)[:n-1]))
}
