// Package ranking fixes the order in which assemblies are processed and
// selects which loaded assemblies take part in a run.
package ranking

import (
	"sort"
	"strings"

	"github.com/phobologic/doxytags/internal/errors"
	"github.com/phobologic/doxytags/internal/model"
)

const (
	// DefaultCoreAssembly is the core runtime assembly, always ordered first.
	DefaultCoreAssembly = "mscorlib"
	// DefaultSystemPrefix marks assemblies ordered before all others.
	DefaultSystemPrefix = "System"
)

// Policy holds the names the ordering depends on.
type Policy struct {
	CoreAssembly string
	SystemPrefix string
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{CoreAssembly: DefaultCoreAssembly, SystemPrefix: DefaultSystemPrefix}
}

// Compare orders two assemblies: identical names are equal, the core runtime
// assembly comes first, then names with the system prefix, then everything
// else by ordinal comparison. Both prefix and core name match case-insensitively.
func (p Policy) Compare(a, b *model.Assembly) (int, error) {
	if a == nil || b == nil {
		return 0, errors.InvalidArgumentf("comparing assemblies: nil assembly")
	}

	fa, fb := a.Name, b.Name
	if fa == fb {
		return 0, nil
	}

	ca, cb := strings.EqualFold(fa, p.CoreAssembly), strings.EqualFold(fb, p.CoreAssembly)
	if ca && !cb {
		return -1, nil
	}
	if !ca && cb {
		return 1, nil
	}

	sa, sb := p.hasSystemPrefix(fa), p.hasSystemPrefix(fb)
	if sa && !sb {
		return -1, nil
	}
	if !sa && sb {
		return 1, nil
	}

	return strings.Compare(fa, fb), nil
}

func (p Policy) hasSystemPrefix(name string) bool {
	return len(name) >= len(p.SystemPrefix) && strings.EqualFold(name[:len(p.SystemPrefix)], p.SystemPrefix)
}

// Sort orders assemblies in place. It fails without reordering when any
// element is nil.
func (p Policy) Sort(asms []*model.Assembly) error {
	for i, a := range asms {
		if a == nil {
			return errors.InvalidArgumentf("sorting assemblies: nil assembly at index %d", i)
		}
	}
	sort.SliceStable(asms, func(i, j int) bool {
		c, _ := p.Compare(asms[i], asms[j])
		return c < 0
	})
	return nil
}

// Filter selects the assemblies that take part in a run.
type Filter struct {
	Company      string // required company tag; empty accepts any
	SystemOnly   bool   // require the system-provided flag
	CoreAssembly string // always accepted, regardless of the other rules
}

// Select returns the assemblies accepted by f, preserving order. Nil entries
// are dropped, and only the first assembly of a given name is kept.
func Select(asms []*model.Assembly, f Filter) []*model.Assembly {
	seen := make(map[string]struct{}, len(asms))
	var out []*model.Assembly
	for _, a := range asms {
		if a == nil {
			continue
		}
		if _, dup := seen[a.Name]; dup {
			continue
		}
		if !f.accepts(a) {
			continue
		}
		seen[a.Name] = struct{}{}
		out = append(out, a)
	}
	return out
}

func (f Filter) accepts(a *model.Assembly) bool {
	if f.CoreAssembly != "" && strings.EqualFold(a.Name, f.CoreAssembly) {
		return true
	}
	if f.Company != "" && a.Company != f.Company {
		return false
	}
	if f.SystemOnly && !a.System {
		return false
	}
	return true
}
