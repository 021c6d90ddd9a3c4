package db

import "ely.by/appearance/internal/skin"

type Appearance struct {
	// Uuid contains player's UUID without dashes in lower case
	Uuid string
	// Skin holds textures and geometry. Deserialized instances carry only the encoded views
	Skin *skin.Skin
}
