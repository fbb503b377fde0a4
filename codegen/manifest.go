package codegen

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pgtypegen/pgtypegen/catalog"
	"github.com/pgtypegen/pgtypegen/query"
)

// Manifest is the JSON sidecar a generate run writes next to its output.
// A later verify run re-introspects the same queries and diffs the fresh
// result against this manifest to report schema drift.
type Manifest struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Queries     []ManifestQuery `json:"queries"`
}

// ManifestQuery is the serializable projection of a query.TypedQuery.
type ManifestQuery struct {
	Name     string           `json:"name"`
	FilePath string           `json:"file_path"`
	Kind     query.Kind       `json:"kind"`
	SQL      string           `json:"sql"`
	Params   []ManifestParam  `json:"params"`
	Columns  []ManifestColumn `json:"columns"`
}

// ManifestParam is the serializable projection of a query.Param. Type is
// the PostgreSQL type name rather than the TypeRef interface, since an
// interface value can't round-trip through JSON without a discriminator.
type ManifestParam struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

// ManifestColumn is the serializable projection of a query.Column.
type ManifestColumn struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// BuildManifest converts a batch of typed queries into a Manifest,
// generatedAt the moment the caller captured (the CLI stamps this once
// per run rather than once per query).
func BuildManifest(generatedAt time.Time, queries []query.TypedQuery) Manifest {
	out := make([]ManifestQuery, len(queries))
	for i, q := range queries {
		out[i] = toManifestQuery(q)
	}
	return Manifest{GeneratedAt: generatedAt, Queries: out}
}

func toManifestQuery(q query.TypedQuery) ManifestQuery {
	params := make([]ManifestParam, len(q.Params))
	for i, p := range q.Params {
		params[i] = ManifestParam{Index: p.Index, Name: p.Name, Type: catalog.String(p.Type)}
	}
	columns := make([]ManifestColumn, len(q.Columns))
	for i, c := range q.Columns {
		columns[i] = ManifestColumn{Name: c.Name, Type: catalog.String(c.Type), Nullable: c.Nullable}
	}
	return ManifestQuery{
		Name:     q.Name,
		FilePath: q.FilePath,
		Kind:     q.Kind,
		SQL:      q.SQL,
		Params:   params,
		Columns:  columns,
	}
}

// WriteManifest writes m to w as indented JSON.
func WriteManifest(w io.Writer, m Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ReadManifest reads a Manifest previously written by WriteManifest.
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("codegen: decode manifest: %w", err)
	}
	return m, nil
}

// Drift is one reported difference between a manifest and a freshly
// introspected query set.
type Drift struct {
	Query  string
	Reason string
}

// Diff compares a previously generated manifest against a freshly
// introspected query set and reports added, removed, and changed
// queries (changed parameter types, changed column sets, or changed
// column nullability). It is the mechanism behind verify mode.
func Diff(previous Manifest, fresh []query.TypedQuery) []Drift {
	prevByName := make(map[string]ManifestQuery, len(previous.Queries))
	for _, q := range previous.Queries {
		prevByName[q.Name] = q
	}

	freshByName := make(map[string]ManifestQuery, len(fresh))
	for _, q := range fresh {
		freshByName[q.Name] = toManifestQuery(q)
	}

	var drifts []Drift
	for name := range prevByName {
		if _, ok := freshByName[name]; !ok {
			drifts = append(drifts, Drift{Query: name, Reason: "query removed"})
		}
	}
	for name, freshQ := range freshByName {
		prevQ, ok := prevByName[name]
		if !ok {
			drifts = append(drifts, Drift{Query: name, Reason: "query added"})
			continue
		}
		drifts = append(drifts, diffQuery(prevQ, freshQ)...)
	}

	sort.Slice(drifts, func(i, j int) bool {
		if drifts[i].Query != drifts[j].Query {
			return drifts[i].Query < drifts[j].Query
		}
		return drifts[i].Reason < drifts[j].Reason
	})
	return drifts
}

func diffQuery(prev, fresh ManifestQuery) []Drift {
	var out []Drift

	if prev.Kind != fresh.Kind {
		out = append(out, Drift{Query: fresh.Name, Reason: fmt.Sprintf("kind changed from %s to %s", prev.Kind, fresh.Kind)})
	}

	if len(prev.Params) != len(fresh.Params) {
		out = append(out, Drift{Query: fresh.Name, Reason: fmt.Sprintf("parameter count changed from %d to %d", len(prev.Params), len(fresh.Params))})
	} else {
		for i := range prev.Params {
			if prev.Params[i].Name != fresh.Params[i].Name {
				out = append(out, Drift{Query: fresh.Name, Reason: fmt.Sprintf("parameter %d renamed from %q to %q", i, prev.Params[i].Name, fresh.Params[i].Name)})
			}
			if prev.Params[i].Type != fresh.Params[i].Type {
				out = append(out, Drift{Query: fresh.Name, Reason: fmt.Sprintf("parameter %q type changed from %s to %s", fresh.Params[i].Name, prev.Params[i].Type, fresh.Params[i].Type)})
			}
		}
	}

	prevCols := make(map[string]ManifestColumn, len(prev.Columns))
	for _, c := range prev.Columns {
		prevCols[c.Name] = c
	}
	freshCols := make(map[string]bool, len(fresh.Columns))
	for _, c := range fresh.Columns {
		freshCols[c.Name] = true
		prevC, ok := prevCols[c.Name]
		if !ok {
			out = append(out, Drift{Query: fresh.Name, Reason: fmt.Sprintf("column %q added", c.Name)})
			continue
		}
		if prevC.Type != c.Type {
			out = append(out, Drift{Query: fresh.Name, Reason: fmt.Sprintf("column %q type changed from %s to %s", c.Name, prevC.Type, c.Type)})
		}
		if prevC.Nullable != c.Nullable {
			out = append(out, Drift{Query: fresh.Name, Reason: fmt.Sprintf("column %q nullability changed from %v to %v", c.Name, prevC.Nullable, c.Nullable)})
		}
	}
	for name := range prevCols {
		if !freshCols[name] {
			out = append(out, Drift{Query: fresh.Name, Reason: fmt.Sprintf("column %q removed", name)})
		}
	}

	return out
}
