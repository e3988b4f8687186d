package model

// ImageCategory groups gallery images.
type ImageCategory string

const (
	CategoryTerreiro ImageCategory = "Terreiro"
	CategoryEventos  ImageCategory = "Eventos"
	CategorySimbolos ImageCategory = "Símbolos"
)

// ParseImageCategory coerces a stored value to a valid category, defaulting to CategoryTerreiro.
func ParseImageCategory(value string) ImageCategory {
	switch foldEnum(value) {
	case "eventos":
		return CategoryEventos
	case "simbolos":
		return CategorySimbolos
	default:
		return CategoryTerreiro
	}
}

// GalleryImage is a published photo.
type GalleryImage struct {
	ID       int64         `json:"id"`
	Src      string        `json:"src"`
	Alt      string        `json:"alt"`
	Caption  string        `json:"caption"`
	Category ImageCategory `json:"category"`
}

// Clone returns a copy of g.
func (g GalleryImage) Clone() GalleryImage { return g }
