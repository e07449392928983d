// Package local implements a source backed by YAML files on disk:
//
//	<dir>/jurisdiction.yaml
//	<dir>/sessions.yaml
//	<dir>/members/<session>/<chamber>.yaml
//	<dir>/legislation/<session>.yaml
//	<dir>/votes/<legislation>.yaml
//
// Only jurisdiction.yaml is required. A missing members file means the
// chamber is not represented for that session; missing legislation or vote
// files mean there is nothing to report.
package local

import (
	"cmp"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/sources"
)

// Data is the full content of a local source.
type Data struct {
	Jurisdiction sources.Jurisdiction
	Sessions     []sources.Session
	// Members is keyed by session, then chamber
	Members     map[legislature.ExternalID]map[legislature.ExternalID][]sources.Member
	Legislation map[legislature.ExternalID][]sources.Legislation
	Votes       map[legislature.ExternalID][]sources.Vote
}

// Source serves Data from memory.
type Source struct {
	data Data
}

var _ sources.Source = (*Source)(nil)

// New creates a source over data.
func New(data Data) *Source {
	return &Source{data: data}
}

// Open loads the directory layout described in the package documentation.
func Open(dir string) (*Source, error) {
	data, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return New(*data), nil
}

// Load reads a local source directory.
func Load(dir string) (*Data, error) {
	data := &Data{
		Members:     make(map[legislature.ExternalID]map[legislature.ExternalID][]sources.Member),
		Legislation: make(map[legislature.ExternalID][]sources.Legislation),
		Votes:       make(map[legislature.ExternalID][]sources.Vote),
	}

	if err := readYAML(filepath.Join(dir, "jurisdiction.yaml"), &data.Jurisdiction, true); err != nil {
		return nil, err
	}
	if data.Jurisdiction.ExternalID == "" {
		return nil, &errors.ValidationError{
			Field:   "external_id",
			Message: "jurisdiction.yaml must declare an external_id",
		}
	}

	if err := readYAML(filepath.Join(dir, "sessions.yaml"), &data.Sessions, false); err != nil {
		return nil, err
	}

	sessionDirs, err := listEntries(filepath.Join(dir, "members"), true)
	if err != nil {
		return nil, err
	}
	for _, session := range sessionDirs {
		chamberFiles, err := listEntries(filepath.Join(dir, "members", session), false)
		if err != nil {
			return nil, err
		}
		byChamber := make(map[legislature.ExternalID][]sources.Member)
		for _, file := range chamberFiles {
			var members []sources.Member
			if err := readYAML(filepath.Join(dir, "members", session, file), &members, true); err != nil {
				return nil, err
			}
			byChamber[legislature.ExternalID(trimExt(file))] = members
		}
		data.Members[legislature.ExternalID(session)] = byChamber
	}

	if err := loadKeyed(filepath.Join(dir, "legislation"), data.Legislation); err != nil {
		return nil, err
	}
	if err := loadKeyed(filepath.Join(dir, "votes"), data.Votes); err != nil {
		return nil, err
	}

	return data, nil
}

// ID returns sources.LocalID.
func (s *Source) ID() sources.ID {
	return sources.LocalID
}

// Jurisdiction returns the jurisdiction loaded at construction.
func (s *Source) Jurisdiction() sources.Jurisdiction {
	return s.data.Jurisdiction
}

// ListSessions returns every session.
func (s *Source) ListSessions(ctx context.Context) ([]sources.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.data.Sessions), nil
}

// ListMembers returns the members of a chamber during a session. It returns
// a *errors.NotFoundError when the source has no roster for the pair.
func (s *Source) ListMembers(ctx context.Context, session, chamber legislature.ExternalID) ([]sources.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	members, ok := s.data.Members[session][chamber]
	if !ok {
		return nil, errors.NewNotFoundError("roster", session.String()+"/"+chamber.String())
	}
	return slices.Clone(members), nil
}

// FetchLegislation returns one page of a session's legislation. Ordering by
// recency requires every item to carry updated_at.
func (s *Source) FetchLegislation(ctx context.Context, session legislature.ExternalID, orderBy sources.OrderBy, page, pageSize int) (legislature.Page[sources.Legislation], error) {
	if err := ctx.Err(); err != nil {
		return legislature.Page[sources.Legislation]{}, err
	}

	items := slices.Clone(s.data.Legislation[session])
	dated := !slices.ContainsFunc(items, func(l sources.Legislation) bool { return l.UpdatedAt == nil })

	switch orderBy {
	case sources.OrderLatest:
		if !dated {
			return legislature.Page[sources.Legislation]{}, sources.ErrOrderingUnsupported
		}
		slices.SortStableFunc(items, func(a, b sources.Legislation) int {
			return b.UpdatedAt.Compare(*a.UpdatedAt)
		})
	case sources.OrderEarliest:
		if dated {
			slices.SortStableFunc(items, func(a, b sources.Legislation) int {
				return a.UpdatedAt.Compare(*b.UpdatedAt)
			})
		}
	default:
		return legislature.Page[sources.Legislation]{}, &errors.ValidationError{
			Field:   "order_by",
			Value:   orderBy,
			Message: "unknown ordering",
		}
	}

	return paginate(items, page, pageSize), nil
}

// ListVotes returns the votes recorded on one piece of legislation.
func (s *Source) ListVotes(ctx context.Context, legislation legislature.ExternalID) ([]sources.Vote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	votes := slices.Clone(s.data.Votes[legislation])
	for i := range votes {
		if votes[i].ExternalID == "" {
			votes[i].ExternalID = sources.VoteKey(legislation, votes[i].ChamberExternalID, votes[i].Motion, votes[i].VotedAt)
		}
	}
	return votes, nil
}

func paginate[T any](items []T, page, pageSize int) legislature.Page[T] {
	result := legislature.Page[T]{
		Items:    []T{},
		Page:     page,
		PageSize: pageSize,
		Total:    len(items),
		NumPages: legislature.NumPagesFor(len(items), pageSize),
	}
	if pageSize <= 0 || page < 0 {
		return result
	}
	start := page * pageSize
	if start >= len(items) {
		return result
	}
	result.Items = append(result.Items, items[start:min(start+pageSize, len(items))]...)
	return result
}

func readYAML(path string, v any, required bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.WrapIO("read", path, err)
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	return nil
}

// listEntries returns sorted names of subdirectories (dirs) or YAML files.
// A missing directory yields no entries.
func listEntries(dir string, dirs bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("list", dir, err)
	}
	var names []string
	for _, e := range entries {
		switch {
		case dirs && e.IsDir():
			names = append(names, e.Name())
		case !dirs && !e.IsDir() && isYAML(e.Name()):
			names = append(names, e.Name())
		}
	}
	slices.SortFunc(names, cmp.Compare[string])
	return names, nil
}

func loadKeyed[T any](dir string, into map[legislature.ExternalID][]T) error {
	files, err := listEntries(dir, false)
	if err != nil {
		return err
	}
	for _, file := range files {
		var items []T
		if err := readYAML(filepath.Join(dir, file), &items, true); err != nil {
			return err
		}
		into[legislature.ExternalID(trimExt(file))] = items
	}
	return nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
