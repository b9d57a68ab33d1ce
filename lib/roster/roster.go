// Package roster loads the TOML file that maps people to the PARMA supplier
// codes they are responsible for. the collector only cares about the union
// of codes.
package roster

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

type Person struct {
	Name       string   `toml:"name"`
	ParmaCodes []string `toml:"parma_codes"`
}

type Roster struct {
	People []Person `toml:"people"`
}

var ErrNoCodes = fmt.Errorf("roster contains no parma codes")

func Load(path string) (Roster, error) {
	var r Roster
	_, err := toml.DecodeFile(path, &r)
	if err != nil {
		return Roster{}, fmt.Errorf("read roster %s: %w", path, err)
	}
	return r, nil
}

// SupplierIDs returns the unique PARMA codes across all people, sorted
// ascending. an empty result is an error, a batch run without IDs is a
// configuration failure.
func (r Roster) SupplierIDs() ([]string, error) {
	seen := map[string]bool{}
	var ids []string
	for _, p := range r.People {
		for _, code := range p.ParmaCodes {
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			ids = append(ids, code)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoCodes
	}
	sort.Strings(ids)
	return ids, nil
}
