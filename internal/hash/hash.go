/*
Copyright © 2019 the Adiabat authors.
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

// Package hash creates stable keys for cached requests.
package hash

import (
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

// printer writes maps in sorted key order, so equal objects always
// produce equal output.
var printer = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisableMethods:          true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Key returns a hash key for the specified objects. Objects are written to
// the hash in order, so Key(a, b) and Key(b, a) differ in general.
// Objects that implement fmt.Stringer are represented by their string.
func Key(objects ...interface{}) string {
	h := fnv.New128a()
	for i, o := range objects {
		fmt.Fprintf(h, "%d:", i)
		if s, ok := o.(fmt.Stringer); ok {
			fmt.Fprint(h, s.String())
			continue
		}
		printer.Fprintf(h, "%#v", o)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
