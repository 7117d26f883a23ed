package model

// Skin is a signed texture descriptor. Both fields are opaque blobs and are
// never validated; an empty skin means "default skin".
type Skin struct {
	Textures  string `yaml:"textures" json:"textures"`
	Signature string `yaml:"signature" json:"signature"`
}

// NewSkin creates a skin from its texture payload and signature.
func NewSkin(textures, signature string) Skin {
	return Skin{Textures: textures, Signature: signature}
}

// IsDefault reports whether the skin carries no texture data at all.
func (s Skin) IsDefault() bool {
	return s.Textures == "" && s.Signature == ""
}
