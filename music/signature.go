package music

// Tempo marks a tempo change at a time step.
type Tempo struct {
	Time int     `json:"time" yaml:"time"`
	QPM  float64 `json:"qpm" yaml:"qpm"`
}

func (t Tempo) IsValid() bool {
	return t.Time >= 0 && t.QPM > 0
}

func (t *Tempo) Shift(offset int) {
	t.Time += offset
}

func (t Tempo) SortKey() []int {
	return []int{t.Time}
}

// pitch classes of the letters C D E F G A B
var letterClasses = [7]int{0, 2, 4, 5, 7, 9, 11}

var letterNames = "CDEFGAB"

// PitchClassOf parses a letter name like "C", "F#", "Bb" or "Ebb" into a
// pitch class 0-11. Reports false for anything it cannot read.
func PitchClassOf(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	letter := name[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	idx := -1
	for i := 0; i < len(letterNames); i++ {
		if letterNames[i] == letter {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, false
	}
	class := letterClasses[idx]
	for _, r := range name[1:] {
		switch r {
		case '#', '♯':
			class++
		case 'b', '♭':
			class--
		default:
			return 0, false
		}
	}
	return ((class % 12) + 12) % 12, true
}

// KeySignature pins a key at a time step. The root may be given as a pitch
// class, a letter name, or a count of sharps/flats; any combination present
// must agree.
type KeySignature struct {
	Time    int    `json:"time" yaml:"time"`
	Root    *int   `json:"root,omitempty" yaml:"root,omitempty"`
	RootStr string `json:"root_str,omitempty" yaml:"root_str,omitempty"`
	Fifths  *int   `json:"fifths,omitempty" yaml:"fifths,omitempty"`
	Mode    string `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// rootFromFifths maps a circle-of-fifths count to the tonic pitch class.
// 7*fifths lands on the major tonic; minor sits a sixth above.
func rootFromFifths(fifths int, mode string) int {
	root := ((fifths*7)%12 + 12) % 12
	if mode == "minor" {
		root = (root + 9) % 12
	}
	return root
}

// ResolveRoot reports the pitch class of the key's root. Precedence is
// Root, then RootStr, then Fifths.
func (k KeySignature) ResolveRoot() (int, bool) {
	if k.Root != nil {
		return *k.Root, *k.Root >= 0 && *k.Root < 12
	}
	if k.RootStr != "" {
		return PitchClassOf(k.RootStr)
	}
	if k.Fifths != nil {
		if *k.Fifths < -7 || *k.Fifths > 7 {
			return 0, false
		}
		return rootFromFifths(*k.Fifths, k.Mode), true
	}
	return 0, false
}

// ResolveFifths reports the sharp/flat count, deriving it from the root
// when only the root is given. 7 is its own inverse mod 12.
func (k KeySignature) ResolveFifths() (int, bool) {
	if k.Fifths != nil {
		return *k.Fifths, *k.Fifths >= -7 && *k.Fifths <= 7
	}
	root, ok := k.ResolveRoot()
	if !ok {
		return 0, false
	}
	if k.Mode == "minor" {
		root = ((root-9)%12 + 12) % 12
	}
	fifths := (root * 7) % 12
	if fifths > 6 {
		fifths -= 12
	}
	return fifths, true
}

// IsValid requires time >= 0, at least one way to resolve the root, and
// agreement between every root field that is present.
func (k KeySignature) IsValid() bool {
	if k.Time < 0 {
		return false
	}
	root, ok := k.ResolveRoot()
	if !ok {
		return false
	}
	if k.Root != nil && (*k.Root < 0 || *k.Root > 11) {
		return false
	}
	if k.RootStr != "" {
		class, ok := PitchClassOf(k.RootStr)
		if !ok || class != root {
			return false
		}
	}
	if k.Fifths != nil {
		if *k.Fifths < -7 || *k.Fifths > 7 {
			return false
		}
		if rootFromFifths(*k.Fifths, k.Mode) != root {
			return false
		}
	}
	return true
}

func (k *KeySignature) Shift(offset int) {
	k.Time += offset
}

func (k KeySignature) SortKey() []int {
	return []int{k.Time}
}

func (k KeySignature) Equal(o KeySignature) bool {
	if k.Time != o.Time || k.RootStr != o.RootStr || k.Mode != o.Mode {
		return false
	}
	if (k.Root == nil) != (o.Root == nil) || (k.Fifths == nil) != (o.Fifths == nil) {
		return false
	}
	if k.Root != nil && *k.Root != *o.Root {
		return false
	}
	if k.Fifths != nil && *k.Fifths != *o.Fifths {
		return false
	}
	return true
}

// TimeSignature is a meter change at a time step.
type TimeSignature struct {
	Time        int `json:"time" yaml:"time"`
	Numerator   int `json:"numerator" yaml:"numerator"`
	Denominator int `json:"denominator" yaml:"denominator"`
}

func (t TimeSignature) IsValid() bool {
	return t.Time >= 0 && t.Numerator > 0 && t.Denominator > 0
}

func (t *TimeSignature) Shift(offset int) {
	t.Time += offset
}

func (t TimeSignature) SortKey() []int {
	return []int{t.Time}
}

// Beat marks one beat; the first beat of a measure carries IsDownbeat.
type Beat struct {
	Time       int  `json:"time" yaml:"time"`
	IsDownbeat bool `json:"is_downbeat" yaml:"is_downbeat"`
}

func (b Beat) IsValid() bool {
	return b.Time >= 0
}

func (b *Beat) Shift(offset int) {
	b.Time += offset
}

func (b Beat) SortKey() []int {
	return []int{b.Time}
}
