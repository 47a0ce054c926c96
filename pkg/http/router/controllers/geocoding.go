package controllers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/gridwords/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type geocodingAPI struct {
	geocodingService GeocodingService
	validator        *requestValidator
	log              *zap.Logger
}

func New(geocodingService GeocodingService, log *zap.Logger) *geocodingAPI {
	return &geocodingAPI{
		geocodingService: geocodingService,
		validator:        newRequestValidator(),
		log:              log,
	}
}

func (api *geocodingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/encode", api.encode)
	group.GET("/decode", api.decode)
	group.GET("/custom", api.custom)
	group.GET("/cell", api.cell)
	group.POST("/encode/batch", api.encodeBatch)
}

// encode godoc
//
//	@Summary	encode a coordinate into a three word address
//	@Tags		geocoding
//	@Param		lat		query	number	true	"latitude"
//	@Param		lon		query	number	true	"longitude"
//	@Param		scheme	query	string	false	"vocabulary (default), synthetic, decorative or freeform"
//	@Param		w1		query	string	false	"first word, freeform scheme only"
//	@Param		w2		query	string	false	"second word, freeform scheme only"
//	@Param		w3		query	string	false	"third word, freeform scheme only"
//	@Produce	json
//	@Router		/encode [get]
func (api *geocodingAPI) encode(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request encodeRequest
		err     error
	)

	query := r.URL.Query()
	request.Lat, err = queryFloat(query, "lat")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Lon, err = queryFloat(query, "lon")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Scheme = query.Get("scheme")
	request.Words = queryWords(query)

	if err := api.validator.Struct(request); err != nil {
		api.ValidationErrorResponse(w, r, err)
		return
	}

	res, err := api.geocodingService.Encode(request.Lat, request.Lon, request.Scheme, request.Words)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewEncodeResponse(res)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// decode godoc
//
//	@Summary	decode a three word address into a coordinate
//	@Tags		geocoding
//	@Param		w1		query	string	false	"first word"
//	@Param		w2		query	string	false	"second word"
//	@Param		w3		query	string	false	"third word"
//	@Param		address	query	string	false	"dotted address, used when w1..w3 are absent"
//	@Param		scheme	query	string	false	"vocabulary (default), synthetic, decorative or freeform"
//	@Produce	json
//	@Router		/decode [get]
func (api *geocodingAPI) decode(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()
	request := decodeRequest{
		Words:   queryWords(query),
		Address: query.Get("address"),
		Scheme:  query.Get("scheme"),
	}

	if err := api.validator.Struct(request); err != nil {
		api.ValidationErrorResponse(w, r, err)
		return
	}

	res, err := api.geocodingService.Decode(request.Words, request.Address, request.Scheme)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewDecodeResponse(res)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// custom godoc
//
//	@Summary	hash three arbitrary words to a point inside the grid
//	@Tags		geocoding
//	@Param		w1	query	string	true	"first word"
//	@Param		w2	query	string	true	"second word"
//	@Param		w3	query	string	true	"third word"
//	@Produce	json
//	@Router		/custom [get]
func (api *geocodingAPI) custom(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request := customRequest{Words: queryWords(r.URL.Query())}
	if err := api.validator.Struct(request); err != nil {
		api.ValidationErrorResponse(w, r, err)
		return
	}

	point, err := api.geocodingService.Custom(request.Words)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	resp := customResponse{Words: request.Words, Lat: point.Lat, Lon: point.Lon}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// cell godoc
//
//	@Summary	grid cell containing a coordinate, as GeoJSON and an encoded polyline
//	@Tags		geocoding
//	@Param		lat	query	number	true	"latitude"
//	@Param		lon	query	number	true	"longitude"
//	@Produce	json
//	@Router		/cell [get]
func (api *geocodingAPI) cell(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request cellRequest
		err     error
	)

	query := r.URL.Query()
	request.Lat, err = queryFloat(query, "lat")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	request.Lon, err = queryFloat(query, "lon")
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.Struct(request); err != nil {
		api.ValidationErrorResponse(w, r, err)
		return
	}

	info, err := api.geocodingService.Cell(request.Lat, request.Lon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewCellResponse(info)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// encodeBatch godoc
//
//	@Summary	encode many coordinates at once
//	@Tags		geocoding
//	@Accept		json
//	@Produce	json
//	@Router		/encode/batch [post]
func (api *geocodingAPI) encodeBatch(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request batchEncodeRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.Struct(request); err != nil {
		api.ValidationErrorResponse(w, r, err)
		return
	}

	items, err := api.geocodingService.EncodeBatch(r.Context(), request.toBatchPoints(), request.Scheme)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewBatchResponse(items)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
