package material

import (
	"context"
	"path"
	"strings"
)

// TextureHandle is whatever the resolver's texture system hands out.
type TextureHandle any

// TextureResolver turns a texture name found in a material into a handle.
type TextureResolver interface {
	Resolve(ctx context.Context, name string) (TextureHandle, error)
}

// ResolverFunc adapts a function to TextureResolver.
type ResolverFunc func(ctx context.Context, name string) (TextureHandle, error)

func (f ResolverFunc) Resolve(ctx context.Context, name string) (TextureHandle, error) {
	return f(ctx, name)
}

var textureExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".tga": {}, ".dds": {},
	".ktx": {}, ".pvr": {}, ".bmp": {},
}

func isTextureName(s string) bool {
	_, ok := textureExts[strings.ToLower(path.Ext(s))]
	return ok
}
