package material

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/unkn0wn-root/molstream"
	"github.com/unkn0wn-root/molstream/hash"
	"github.com/unkn0wn-root/molstream/internal/util"
	"github.com/unkn0wn-root/molstream/store"
)

var tagLibrary = &molstream.Tag{Name: "library.count"}

// Options configure a Manager. All fields are optional.
type Options struct {
	Resolver TextureResolver  // required only for Texture
	Logger   molstream.Logger // if nil, NopLogger is used
	SaveTTL  time.Duration    // passed to store.PutBulk; 0 => store default
}

// Manager owns every material it has loaded, keyed by name hash. Pointers
// it returns stay valid until Close and must not be mutated. A later
// definition of the same name replaces the earlier one.
type Manager struct {
	resolver TextureResolver
	log      molstream.Logger
	saveTTL  time.Duration

	mu        sync.RWMutex
	materials map[hash.Hash]*Material
}

func NewManager(opts Options) *Manager {
	return &Manager{
		resolver:  opts.Resolver,
		log:       util.Coalesce[molstream.Logger](opts.Logger, molstream.NopLogger{}),
		saveTTL:   opts.SaveTTL,
		materials: make(map[hash.Hash]*Material),
	}
}

// ReadFile loads path, choosing the syntax from its extension.
func (mgr *Manager) ReadFile(path string) error {
	f, ok := formatByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	return mgr.Read(fh, f, path)
}

// Read loads materials in format f from r. name is used in errors and logs.
// Nothing is added when r fails to parse.
func (mgr *Manager) Read(r io.Reader, f Format, name string) error {
	ms, err := parse(r, f, name)
	if err != nil {
		mgr.log.Warn("material file rejected", molstream.Fields{"file": name, "err": err})
		return err
	}
	mgr.add(ms...)
	mgr.log.Info("materials loaded", molstream.Fields{"file": name, "format": string(f), "count": len(ms)})
	return nil
}

func (mgr *Manager) ReadIni(r io.Reader, name string) error  { return mgr.Read(r, FormatIni, name) }
func (mgr *Manager) ReadMtl(r io.Reader, name string) error  { return mgr.Read(r, FormatMtl, name) }
func (mgr *Manager) ReadTOML(r io.Reader, name string) error { return mgr.Read(r, FormatTOML, name) }
func (mgr *Manager) ReadYAML(r io.Reader, name string) error { return mgr.Read(r, FormatYAML, name) }

func (mgr *Manager) add(ms ...*Material) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	for _, m := range ms {
		if _, ok := mgr.materials[m.Hash]; ok {
			mgr.log.Debug("material replaced", molstream.Fields{"material": m.Name})
		}
		mgr.materials[m.Hash] = m
	}
}

// GetMaterial returns the material with hash h, or nil.
func (mgr *Manager) GetMaterial(h hash.Hash) *Material {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.materials[h]
}

// GetMaterialByName returns the material called name, or nil.
func (mgr *Manager) GetMaterialByName(name string) *Material {
	return mgr.GetMaterial(hash.Of(name))
}

func (mgr *Manager) Len() int {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return len(mgr.materials)
}

// Hashes returns the hashes of all materials in ascending order.
func (mgr *Manager) Hashes() []hash.Hash {
	mgr.mu.RLock()
	hs := make([]hash.Hash, 0, len(mgr.materials))
	for h := range mgr.materials {
		hs = append(hs, h)
	}
	mgr.mu.RUnlock()
	sort.Sort(hash.Sorted(hs))
	return hs
}

// Texture resolves the texture variable key of m. A nil m reports
// ErrNotFound, so a failed GetMaterial lookup can be passed straight in.
func (mgr *Manager) Texture(ctx context.Context, m *Material, key string) (TextureHandle, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: texture %q in missing material", ErrNotFound, key)
	}
	v, ok := m.Get(key)
	if !ok || v.Kind != KindTexture {
		return nil, fmt.Errorf("%w: texture %q in material %q", ErrNotFound, key, m.Name)
	}
	if mgr.resolver == nil {
		return nil, ErrNoResolver
	}
	return mgr.resolver.Resolve(ctx, v.Str)
}

// WriteLibrary writes every material, in ascending hash order, as
//
//	count int(32) | material*count
func (mgr *Manager) WriteLibrary(e *molstream.Encoder) error {
	hs := mgr.Hashes()
	if err := e.Int(len(hs), 32, tagLibrary); err != nil {
		return err
	}
	for _, h := range hs {
		m := mgr.GetMaterial(h)
		if m == nil {
			return fmt.Errorf("%w: material %s removed during write", ErrNotFound, h)
		}
		if err := e.Encode(m); err != nil {
			return err
		}
	}
	return nil
}

// ReadLibrary reads materials written by WriteLibrary. Nothing is added
// unless the whole library decodes.
func (mgr *Manager) ReadLibrary(d *molstream.Decoder) error {
	n, err := d.Int(32, tagLibrary)
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: library of %d materials", ErrInvalidData, n)
	}
	ms := make([]*Material, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		m := new(Material)
		if err := d.Decode(m); err != nil {
			return fmt.Errorf("material %d of %d: %w", i+1, n, err)
		}
		ms = append(ms, m)
	}
	mgr.add(ms...)
	return nil
}

// Save writes every material to st as one bulk entry plus a single entry each.
func (mgr *Manager) Save(ctx context.Context, st *store.Store[*Material]) error {
	hs := mgr.Hashes()
	items := make(map[hash.Hash]*Material, len(hs))
	for _, h := range hs {
		if m := mgr.GetMaterial(h); m != nil {
			items[h] = m
		}
	}
	if err := st.PutBulk(ctx, items, mgr.saveTTL); err != nil {
		return err
	}
	mgr.log.Debug("materials saved", molstream.Fields{"count": len(items)})
	return nil
}

// Load adds the materials stored under hs and returns the hashes st did
// not have.
func (mgr *Manager) Load(ctx context.Context, st *store.Store[*Material], hs []hash.Hash) ([]hash.Hash, error) {
	found, missing, err := st.GetBulk(ctx, hs)
	if err != nil {
		return nil, err
	}
	ms := make([]*Material, 0, len(found))
	for _, h := range hs {
		if m, ok := found[h]; ok {
			ms = append(ms, m)
			delete(found, h)
		}
	}
	mgr.add(ms...)
	if len(missing) > 0 {
		mgr.log.Debug("materials missing from store", molstream.Fields{"missing": len(missing)})
	}
	return missing, nil
}

// Close drops every material. Pointers handed out earlier must not be used
// afterwards.
func (mgr *Manager) Close() {
	mgr.mu.Lock()
	mgr.materials = make(map[hash.Hash]*Material)
	mgr.mu.Unlock()
}
