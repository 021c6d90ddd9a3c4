package http

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mono83/slf"
	"github.com/thedevsaddam/govalidator"

	"ely.by/appearance/internal/appearances"
	"ely.by/appearance/internal/db"
	"ely.by/appearance/internal/skin"
	"ely.by/appearance/internal/texture"
)

const maxMultipartMemory int64 = 32 << 20

const oneOfSkinDataOrFileMessage = "One of skinData or skin should be provided, but not both"

func init() {
	// Add ability to validate any possible uuid form
	govalidator.AddCustomRule("uuid_any", func(field string, rule string, message string, value interface{}) error {
		str, _ := value.(string)
		if str == "" {
			return nil
		}

		if _, err := uuid.Parse(str); err != nil {
			if message == "" {
				message = fmt.Sprintf("The %s field must contain valid UUID", field)
			}

			return errors.New(message)
		}

		return nil
	})

	govalidator.AddCustomRule("std_base64", func(field string, rule string, message string, value interface{}) error {
		str, _ := value.(string)
		if str == "" {
			return nil
		}

		if !skin.IsStdBase64([]byte(str)) {
			if message == "" {
				message = fmt.Sprintf("The %s field must contain a valid base64 string", field)
			}

			return errors.New(message)
		}

		return nil
	})
}

type AppearancesManager interface {
	PersistAppearance(ctx context.Context, appearance *db.Appearance) error
	RemoveAppearanceByUuid(ctx context.Context, uuid string) error
}

type Api struct {
	AppearancesManager
	Logger slf.Logger
}

func (ctx *Api) Handler() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/appearances", ctx.postAppearanceHandler).Methods(http.MethodPost)
	router.HandleFunc("/appearances/{uuid}", ctx.deleteAppearanceByUuidHandler).Methods(http.MethodDelete)

	return router
}

func (ctx *Api) postAppearanceHandler(resp http.ResponseWriter, req *http.Request) {
	validationErrors := validatePostAppearanceRequest(req)
	if validationErrors != nil {
		apiBadRequest(resp, validationErrors)
		return
	}

	appearance, validationErrors := buildAppearance(req)
	if validationErrors != nil {
		apiBadRequest(resp, validationErrors)
		return
	}

	err := ctx.PersistAppearance(req.Context(), appearance)
	if err != nil {
		var v *appearances.ValidationError
		if errors.As(err, &v) {
			apiBadRequest(resp, v.Errors)
			return
		}

		apiServerError(resp, ctx.Logger, fmt.Errorf("unable to save appearance to db: %w", err))
		return
	}

	resp.WriteHeader(http.StatusCreated)
}

func (ctx *Api) deleteAppearanceByUuidHandler(resp http.ResponseWriter, req *http.Request) {
	err := ctx.AppearancesManager.RemoveAppearanceByUuid(req.Context(), mux.Vars(req)["uuid"])
	if err != nil {
		if errors.Is(err, appearances.ErrAppearanceNotFound) {
			NotFoundHandler(resp, req)
			return
		}

		apiServerError(resp, ctx.Logger, fmt.Errorf("unable to delete appearance from db: %w", err))
		return
	}

	resp.WriteHeader(http.StatusNoContent)
}

func validatePostAppearanceRequest(request *http.Request) map[string][]string {
	// Populates Form for url-encoded bodies as well
	_ = request.ParseMultipartForm(maxMultipartMemory)

	validationRules := govalidator.MapData{
		"uuid":         {"required", "uuid_any"},
		"skinId":       {"max:64"},
		"skinData":     {"std_base64"},
		"capeData":     {"std_base64"},
		"geometryName": {"max:255"},
		"geometryData": {"std_base64"},
	}

	skinData := request.Form.Get("skinData")
	hasSkinFile := hasFile(request, "skin")
	shouldAppendSkinRequiredError := (skinData != "") == hasSkinFile

	validator := govalidator.New(govalidator.Options{
		Request:         request,
		Rules:           validationRules,
		RequiredDefault: false,
		FormSize:        maxMultipartMemory,
	})
	validationResults := validator.Validate()
	if shouldAppendSkinRequiredError {
		validationResults["skinData"] = append(validationResults["skinData"], oneOfSkinDataOrFileMessage)
		validationResults["skin"] = append(validationResults["skin"], oneOfSkinDataOrFileMessage)
	}

	if len(validationResults) != 0 {
		return validationResults
	}

	return nil
}

func buildAppearance(req *http.Request) (*db.Appearance, map[string][]string) {
	errs := make(map[string][]string)
	s := skin.New()
	s.SetSkinId(req.Form.Get("skinId"))
	s.SetGeometryName(req.Form.Get("geometryName"))

	if skinData := req.Form.Get("skinData"); skinData != "" {
		if err := s.SetEncodedSkinData([]byte(skinData)); err != nil {
			errs["skinData"] = append(errs["skinData"], err.Error())
		}
	} else if err := readImage(req, "skin", s.SetSkinImage); err != nil {
		errs["skin"] = append(errs["skin"], err.Error())
	}

	if capeData := req.Form.Get("capeData"); capeData != "" {
		if err := s.SetEncodedCapeData([]byte(capeData)); err != nil {
			errs["capeData"] = append(errs["capeData"], err.Error())
		}
	} else if hasFile(req, "cape") {
		if err := readImage(req, "cape", s.SetCapeImage); err != nil {
			errs["cape"] = append(errs["cape"], err.Error())
		}
	}

	if geometryData := req.Form.Get("geometryData"); geometryData != "" {
		if err := s.SetEncodedGeometryData([]byte(geometryData)); err != nil {
			errs["geometryData"] = append(errs["geometryData"], err.Error())
		}
	}

	if len(errs) != 0 {
		return nil, errs
	}

	return &db.Appearance{
		Uuid: req.Form.Get("uuid"),
		Skin: s,
	}, nil
}

func readImage(req *http.Request, field string, setter func(img image.Image) error) error {
	file, _, err := req.FormFile(field)
	if err != nil {
		return err
	}

	defer file.Close()

	img, _, err := texture.Decode(file)
	if err != nil {
		return err
	}

	return setter(img)
}

func hasFile(req *http.Request, field string) bool {
	if req.MultipartForm == nil {
		return false
	}

	return len(req.MultipartForm.File[field]) != 0
}
