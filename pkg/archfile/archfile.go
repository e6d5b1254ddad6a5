// Package archfile loads architecture descriptions from TOML files.
//
// A file lists components and relationships as arrays of tables:
//
//	[[component]]
//	id = "UI"
//	name = "User Interface"
//	metadata = "react"
//
//	[[component]]
//	id = "API"
//
//	[[relationship]]
//	from = "UI"
//	to = "API"
//	type = "calls"
//
// Entries are applied in file order through the regular [arch.Store]
// operations, so a file is subject to exactly the same rules as the
// interactive shell: duplicate IDs and dangling endpoints are errors. Files
// are only ever read; archscope never writes the graph back.
package archfile

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/errors"
)

type file struct {
	Components    []componentEntry    `toml:"component"`
	Relationships []relationshipEntry `toml:"relationship"`
}

type componentEntry struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Metadata string `toml:"metadata"`
}

type relationshipEntry struct {
	From string `toml:"from"`
	To   string `toml:"to"`
	Type string `toml:"type"`
}

// Load reads the architecture file at path into a new store.
func Load(path string) (*arch.Store, error) {
	if err := errors.ValidateArchitecturePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "architecture file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	s, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New(errors.GetCode(err), "%s: %s", path, errors.UserMessage(err))
	}
	return s, nil
}

// Decode reads an architecture description from r into a new store.
//
// Unknown keys are rejected so that typos such as "metdata" surface instead
// of silently dropping data. Store errors keep their code and are
// prefixed with the failing entry, for example "relationship 2: ...".
func Decode(r io.Reader) (*arch.Store, error) {
	var f file
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "decode toml: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown keys: %s", strings.Join(keys, ", "))
	}

	s := arch.NewStore()
	for i, c := range f.Components {
		if err := s.CreateComponent(c.ID, c.Name, c.Metadata); err != nil {
			return nil, errors.New(errors.GetCode(err), "component %d: %s", i+1, errors.UserMessage(err))
		}
	}
	for i, rel := range f.Relationships {
		if err := s.CreateRelationship(rel.From, rel.To, rel.Type); err != nil {
			return nil, errors.New(errors.GetCode(err), "relationship %d: %s", i+1, errors.UserMessage(err))
		}
	}
	return s, nil
}
