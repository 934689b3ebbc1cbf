package engine

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/topsteelcad/dstv-engine/internal/diag"
)

var semverRe = regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

// registry holds registered plugins in registration order. Extension
// overlap between plugins is legal; detection resolves it by content
// probing with registration order as the deterministic tie-break.
type registry struct {
	mu      sync.RWMutex
	plugins []Plugin
}

// register validates the plugin's registration schema and appends it.
func (r *registry) register(p Plugin) error {
	fields := validatePluginSchema(p)
	if len(fields) > 0 {
		return &diag.PluginValidationError{PluginID: p.Info().ID, Fields: fields}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if lo.ContainsBy(r.plugins, func(q Plugin) bool { return q.Info().ID == p.Info().ID }) {
		return &diag.DuplicatePluginError{PluginID: p.Info().ID}
	}
	r.plugins = append(r.plugins, p)
	return nil
}

// unregister removes the plugin with the given id.
func (r *registry) unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := lo.Filter(r.plugins, func(p Plugin, _ int) bool { return p.Info().ID != id })
	if len(kept) == len(r.plugins) {
		return &diag.UnknownFormatError{FormatID: id}
	}
	r.plugins = kept
	return nil
}

// get returns the plugin registered under id.
func (r *registry) get(id string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Find(r.plugins, func(p Plugin) bool { return p.Info().ID == id })
}

// all returns the plugins in registration order.
func (r *registry) all() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Plugin(nil), r.plugins...)
}

// candidatesFor filters plugins by a filename's extension; with no
// extension hint every plugin is a candidate.
func (r *registry) candidatesFor(filename string) []Plugin {
	all := r.all()
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return all
	}
	matched := lo.Filter(all, func(p Plugin, _ int) bool {
		return lo.Contains(p.Info().Extensions, ext)
	})
	if len(matched) == 0 {
		// An unknown extension falls back to content probing across the
		// board rather than failing outright.
		return all
	}
	return matched
}

// validatePluginSchema returns the names of the registration fields that
// fail the schema check.
func validatePluginSchema(p Plugin) []string {
	var fields []string
	info := p.Info()

	if !knownFormatIDs[info.ID] {
		fields = append(fields, "id")
	}
	if info.Name == "" {
		fields = append(fields, "name")
	}
	if !semverRe.MatchString(info.Version) {
		fields = append(fields, "version")
	}
	if len(info.Extensions) == 0 {
		fields = append(fields, "extensions")
	} else {
		for _, ext := range info.Extensions {
			if !strings.HasPrefix(ext, ".") {
				fields = append(fields, "extensions")
				break
			}
		}
	}

	// The capability matrix is a typed struct, so it cannot be
	// structurally malformed; an export matrix on a plugin with no export
	// pipeline is caught at export time as a Capability error instead.
	return fields
}
