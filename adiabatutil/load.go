/*
Copyright © 2017 the Adiabat authors.
This file is part of Adiabat.

Adiabat is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Adiabat is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Adiabat.  If not, see <http://www.gnu.org/licenses/>.
*/

package adiabatutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/adiabat"
)

// LoadCatalog reads and validates a JSON list of candidate combustion
// products.
func LoadCatalog(path string) ([]adiabat.Species, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("adiabat: problem loading catalog: %v", err)
	}
	d := json.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()
	var catalog []adiabat.Species
	if err := d.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("adiabat: problem decoding catalog %s: %v", path, err)
	}
	if err := adiabat.ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// LoadPropellant reads and validates a propellant file. Files with the
// extension '.toml' are decoded as TOML and all others as JSON.
func LoadPropellant(path string) (*adiabat.Propellant, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("adiabat: problem loading propellant: %v", err)
	}
	p := new(adiabat.Propellant)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err = toml.Decode(string(b), p)
	} else {
		err = json.Unmarshal(b, p)
	}
	if err != nil {
		return nil, fmt.Errorf("adiabat: problem decoding propellant %s: %v", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
