// Package schemastore persists schema version manifests: a content-hash
// history of a named root schema over time, so a service can record which
// shape it wrote at a given moment and later ask "has this changed since
// version N" without keeping every historical Go type around. It is a
// supplemented feature (not named by the core compatibility spec) built the
// way the source repository versions its own schema/model graphs.
package schemastore

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/drewnoakes/msgpack-strict/errs"
	"github.com/drewnoakes/msgpack-strict/schema"
)

// Version is one recorded version of a named root schema: Vers increments
// each time the schema's canonical text changes; Hash is the sha256 of
// Name plus that canonical text, so two processes that derive the same
// schema independently agree on its version without coordinating.
type Version struct {
	Name string
	Vers int64
	Hash string
	Date time.Time
}

// Manifest tracks the last known version of every name it has seen and
// derives the next version for a freshly-observed schema (§3.5's "drop the
// collection to drop its schemas" does not apply here: a Manifest outlives
// any one Collection).
type Manifest interface {
	// Version returns name's version for s, incrementing Vers if s's
	// canonical text differs from the last recorded hash for name.
	Version(name string, s schema.Schema) (Version, error)
}

// NewManifest returns a Manifest seeded with previously recorded versions,
// e.g. loaded from a Store.
func NewManifest(records []Version) Manifest {
	mf := make(manifest, len(records))
	for _, v := range records {
		e := mf[v.Name]
		if e == nil || e.old.Vers < v.Vers {
			mf[v.Name] = &entry{old: v}
		}
	}
	return mf
}

type manifest map[string]*entry

type entry struct {
	old Version
	cur Version
}

func (mf manifest) Version(name string, s schema.Schema) (Version, error) {
	e := mf[name]
	var res Version
	res.Name = name
	switch {
	case e == nil:
		res.Vers = 1
	case e.cur.Vers != 0:
		e.old, res.Vers = e.cur, e.cur.Vers
	case e.old.Vers != 0:
		res.Vers = e.old.Vers
	default:
		return res, errs.New(errs.SchemaInvariantViolation, name, "manifest entry in inconsistent state")
	}
	h := sha256.New()
	io.WriteString(h, name)
	io.WriteString(h, schema.Text(s))
	res.Hash = hex.EncodeToString(h.Sum(nil))
	if e == nil {
		mf[name] = &entry{cur: res}
	} else if res.Hash != e.old.Hash {
		res.Vers++
		e.cur = res
	} else {
		res = e.old
		e.cur = res
	}
	return res, nil
}
