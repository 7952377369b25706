// Package graphics loads and caches the images the viewer draws.
package graphics

import (
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

// spriteDirs are searched in order below the sprite root.
var spriteDirs = []string{"monsters", "towers"}

// SpriteManager serves sprites by name. A name without a PNG on disk gets a
// placeholder, built once and cached like a loaded sprite.
type SpriteManager struct {
	root    string
	sprites map[string]*ebiten.Image
	paths   map[string]string // resolved file per name, "" when none exists
}

func NewSpriteManager(root string) *SpriteManager {
	return &SpriteManager{
		root:    root,
		sprites: make(map[string]*ebiten.Image),
		paths:   make(map[string]string),
	}
}

// GetSprite returns the sprite for name, calling placeholder when no file
// can be loaded.
func (sm *SpriteManager) GetSprite(name string, placeholder func() *ebiten.Image) *ebiten.Image {
	if sprite, exists := sm.sprites[name]; exists {
		return sprite
	}

	sprite := sm.load(name)
	if sprite == nil {
		sprite = placeholder()
	}
	sm.sprites[name] = sprite
	return sprite
}

// load decodes the sprite file for name, or returns nil.
func (sm *SpriteManager) load(name string) *ebiten.Image {
	path := sm.spritePath(name)
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil
	}
	return ebiten.NewImageFromImage(img)
}

// spritePath finds the first existing PNG for name, caching misses so the
// disk is checked once per name.
func (sm *SpriteManager) spritePath(name string) string {
	if path, ok := sm.paths[name]; ok {
		return path
	}
	path := ""
	if sm.root != "" {
		for _, dir := range spriteDirs {
			candidate := filepath.Join(sm.root, dir, name+".png")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	sm.paths[name] = path
	return path
}
