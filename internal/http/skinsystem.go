package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mono83/slf"

	"ely.by/appearance/internal/db"
	"ely.by/appearance/internal/texture"
)

type AppearancesProvider interface {
	FindAppearanceByUuid(ctx context.Context, uuid string) (*db.Appearance, error)
}

type Skinsystem struct {
	AppearancesProvider
	Logger slf.Logger
}

func (s *Skinsystem) Handler() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/appearances/{uuid}", s.appearanceHandler).Methods(http.MethodGet)
	router.HandleFunc("/appearances/{uuid}/skin.png", s.skinPngHandler).Methods(http.MethodGet)
	router.HandleFunc("/appearances/{uuid}/skin.webp", s.skinWebpHandler).Methods(http.MethodGet)

	return router
}

type appearanceResponse struct {
	Uuid         string `json:"uuid"`
	SkinId       string `json:"skinId"`
	SkinData     string `json:"skinData"`
	CapeData     string `json:"capeData"`
	GeometryName string `json:"geometryName"`
	GeometryData string `json:"geometryData"`
}

func (s *Skinsystem) appearanceHandler(response http.ResponseWriter, request *http.Request) {
	appearance, ok := s.findAppearance(response, request)
	if !ok {
		return
	}

	skin := appearance.Skin
	result, _ := json.Marshal(&appearanceResponse{
		Uuid:         appearance.Uuid,
		SkinId:       skin.SkinId(),
		SkinData:     string(skin.EncodedSkinData()),
		CapeData:     string(skin.EncodedCapeData()),
		GeometryName: skin.GeometryName(),
		GeometryData: string(skin.EncodedGeometryData()),
	})

	response.Header().Set("Content-Type", "application/json")
	_, _ = response.Write(result)
}

func (s *Skinsystem) skinPngHandler(response http.ResponseWriter, request *http.Request) {
	s.renderSkin(response, request, "image/png", texture.EncodePNG)
}

func (s *Skinsystem) skinWebpHandler(response http.ResponseWriter, request *http.Request) {
	s.renderSkin(response, request, "image/webp", texture.EncodeWebP)
}

func (s *Skinsystem) renderSkin(
	response http.ResponseWriter,
	request *http.Request,
	contentType string,
	encode func(w io.Writer, img image.Image) error,
) {
	appearance, ok := s.findAppearance(response, request)
	if !ok {
		return
	}

	img, err := texture.Render(appearance.Skin)
	if err != nil {
		apiServerError(response, s.Logger, fmt.Errorf("unable to render the skin: %w", err))
		return
	}

	var buf bytes.Buffer
	err = encode(&buf, img)
	if err != nil {
		apiServerError(response, s.Logger, fmt.Errorf("unable to encode the skin: %w", err))
		return
	}

	response.Header().Set("Content-Type", contentType)
	_, _ = buf.WriteTo(response)
}

func (s *Skinsystem) findAppearance(response http.ResponseWriter, request *http.Request) (*db.Appearance, bool) {
	appearance, err := s.AppearancesProvider.FindAppearanceByUuid(request.Context(), mux.Vars(request)["uuid"])
	if err != nil {
		apiServerError(response, s.Logger, fmt.Errorf("unable to retrieve an appearance: %w", err))
		return nil, false
	}

	if appearance == nil || appearance.Skin == nil {
		NotFoundHandler(response, request)
		return nil, false
	}

	return appearance, true
}
