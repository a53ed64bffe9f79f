package chip8

import (
	"strings"
)

/// Quirks select between the incompatible conventions that circulate among
/// CHIP-8 ROMs. The zero value is the convention used by most modern ROMs:
/// shifts operate on VX in place, FX55/FX65 leave I alone, sprites clip at the
/// display edges and BNNN jumps to NNN+V0.
///
type Quirks struct {
	ShiftUsesVY          bool // 8XY6/8XYE shift VY and store the result in VX
	LoadStoreIncrementsI bool // FX55/FX65 leave I pointing past the last register
	WrapSprites          bool // DXYN wraps pixels to the opposite edge
	JumpUsesVX           bool // BXNN jumps to XNN+VX
}

var quirkNames = []struct {
	name string
	set  func(q *Quirks)
}{
	{"shift", func(q *Quirks) { q.ShiftUsesVY = true }},
	{"loadstore", func(q *Quirks) { q.LoadStoreIncrementsI = true }},
	{"wrap", func(q *Quirks) { q.WrapSprites = true }},
	{"jump", func(q *Quirks) { q.JumpUsesVX = true }},
}

/// ParseQuirks enables each quirk named in a comma separated list.
///
func ParseQuirks(list string) (q Quirks, err error) {
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		found := false
		for _, qn := range quirkNames {
			if qn.name == name {
				qn.set(&q)
				found = true
			}
		}

		if !found {
			return Quirks{}, QuirkError(name)
		}
	}

	return
}

/// String returns the comma separated names of the enabled quirks.
///
func (q Quirks) String() string {
	var names []string

	enabled := []bool{q.ShiftUsesVY, q.LoadStoreIncrementsI, q.WrapSprites, q.JumpUsesVX}
	for i, on := range enabled {
		if on {
			names = append(names, quirkNames[i].name)
		}
	}

	return strings.Join(names, ",")
}
