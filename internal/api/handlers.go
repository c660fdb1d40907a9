package api

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/geomkit/geomkit/core/errors"
	"github.com/geomkit/geomkit/core/geom"
	"github.com/geomkit/geomkit/core/geomio"
	"github.com/geomkit/geomkit/internal/cache"
	"github.com/geomkit/geomkit/internal/logging"
)

const apiVersion = "0.1.0"

// maxBodyBytes caps request bodies; geometries past this size belong in files.
const maxBodyBytes = 16 << 20

// encodedCache holds encoded representations of stored geometries, keyed
// by "<id>|<format>". Deletions invalidate it wholesale.
var encodedCache = cache.New[string, ConvertResult](5 * time.Minute)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ConvertRequest is the request body for conversion.
type ConvertRequest struct {
	Data     string   `json:"data"`
	Encoding string   `json:"encoding,omitempty"` // "text" (default) or "base64"
	From     string   `json:"from,omitempty"`     // empty = detect
	To       string   `json:"to"`
	Args     []string `json:"args,omitempty"`
}

// ConvertResult is the result of a conversion.
type ConvertResult struct {
	Data     string `json:"data"`
	Encoding string `json:"encoding"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// DetectResult reports what the detector saw.
type DetectResult struct {
	Format string `json:"format"`
	Hint   string `json:"hint,omitempty"`
}

// GeometryInfo describes a stored geometry.
type GeometryInfo struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	SRID        int    `json:"srid"`
	IsEmpty     bool   `json:"is_empty"`
	Fingerprint string `json:"fingerprint"`
	Size        int    `json:"size"`
	CreatedAt   string `json:"created_at"`
}

// StoreResult is the response to storing a geometry.
type StoreResult struct {
	ID          string `json:"id"`
	Existed     bool   `json:"existed"`
	Fingerprint string `json:"fingerprint"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Formats int    `json:"formats"`
	Store   bool   `json:"store"`
}

var startTime = time.Now()

func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"name":    "geomkit API",
		"version": apiVersion,
		"endpoints": []string{
			"GET /health",
			"GET /v1/formats",
			"POST /v1/convert",
			"POST /v1/detect",
			"GET /v1/geometries",
			"POST /v1/geometries",
			"GET /v1/geometries/:id",
			"DELETE /v1/geometries/:id",
			"WS /v1/stream",
			"GET /metrics",
		},
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	respond(w, http.StatusOK, HealthInfo{
		Status:  "healthy",
		Version: apiVersion,
		Uptime:  time.Since(startTime).String(),
		Formats: len(geomio.Formats()),
		Store:   activeStore != nil,
	})
}

func handleFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	formats := geomio.Formats()

	response := APIResponse{
		Success: true,
		Data:    formats,
		Meta: &APIMeta{
			Total:     len(formats),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req ConvertRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON")
		return
	}
	if req.Data == "" || req.To == "" {
		respondError(w, http.StatusBadRequest, "MISSING_PARAMS", "data and to are required")
		return
	}

	result, apiErr := convert(req)
	if apiErr != nil {
		respondError(w, apiErr.status, apiErr.Code, apiErr.Message)
		return
	}
	respond(w, http.StatusOK, result)
}

// convert runs one conversion request; it is shared by the HTTP handler
// and the WebSocket stream.
func convert(req ConvertRequest) (*ConvertResult, *handlerError) {
	data, err := requestBytes(req.Data, req.Encoding)
	if err != nil {
		return nil, &handlerError{http.StatusBadRequest, APIError{"INVALID_ENCODING", err.Error()}}
	}

	from := req.From
	readArgs := req.Args
	if from == "" {
		var hint string
		from, hint = geomio.Detect(data)
		recordDetection(from)
		if from == "" {
			return nil, &handlerError{http.StatusUnprocessableEntity, APIError{"UNKNOWN_FORMAT", "could not detect the input format"}}
		}
		if hint != "" {
			readArgs = append(readArgs[:len(readArgs):len(readArgs)], hint)
		}
	}

	start := time.Now()
	g, err := geomio.DecodeFormat(data, from, readArgs...)
	if err != nil {
		recordConversion(from, req.To, false, 0)
		return nil, decodeError(err)
	}

	out, err := geomio.Encode(g, req.To, req.Args...)
	if err != nil {
		recordConversion(from, req.To, false, 0)
		return nil, decodeError(err)
	}
	elapsed := time.Since(start)

	recordConversion(from, req.To, true, elapsed)
	logging.Conversion(from, req.To, len(data), len(out))

	result := &ConvertResult{From: from, To: req.To}
	if utf8.Valid(out) {
		result.Data = string(out)
		result.Encoding = "text"
	} else {
		result.Data = base64.StdEncoding.EncodeToString(out)
		result.Encoding = "base64"
	}
	return result, nil
}

func handleDetect(w http.ResponseWriter, r *http.Request) {
	var data []byte
	switch r.Method {
	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_BODY", "Failed to read request body")
			return
		}
		data = body
	case http.MethodGet:
		data = []byte(r.URL.Query().Get("data"))
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and POST are allowed")
		return
	}

	format, hint := geomio.Detect(data)
	recordDetection(format)
	respond(w, http.StatusOK, DetectResult{Format: format, Hint: hint})
}

func handleGeometries(w http.ResponseWriter, r *http.Request) {
	if activeStore == nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_DISABLED", "No geometry store is configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		listGeometriesHandler(w, r)
	case http.MethodPost:
		storeGeometryHandler(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and POST are allowed")
	}
}

func listGeometriesHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := activeStore.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	infos := make([]GeometryInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, GeometryInfo{
			ID:          e.ID,
			Type:        e.Tag,
			SRID:        e.SRID,
			IsEmpty:     e.IsEmpty,
			Fingerprint: e.Fingerprint,
			Size:        e.Size,
			CreatedAt:   e.CreatedAt,
		})
	}

	response := APIResponse{
		Success: true,
		Data:    infos,
		Meta: &APIMeta{
			Total:     len(infos),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func storeGeometryHandler(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON")
		return
	}
	if req.Data == "" {
		respondError(w, http.StatusBadRequest, "MISSING_PARAMS", "data is required")
		return
	}

	data, err := requestBytes(req.Data, req.Encoding)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ENCODING", err.Error())
		return
	}

	geometry, err := loadForStore(data, req.From, req.Args)
	if err != nil {
		apiErr := decodeError(err)
		respondError(w, apiErr.status, apiErr.Code, apiErr.Message)
		return
	}

	id, existed, err := activeStore.Put(geometry)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	fingerprint, err := geomio.Fingerprint(geometry)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	respond(w, status, StoreResult{ID: id, Existed: existed, Fingerprint: fingerprint})
}

func handleGeometryByID(w http.ResponseWriter, r *http.Request) {
	if activeStore == nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_DISABLED", "No geometry store is configured")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/geometries/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		getGeometryHandler(w, r, id)
	case http.MethodDelete:
		deleteGeometryHandler(w, id)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and DELETE are allowed")
	}
}

func getGeometryHandler(w http.ResponseWriter, r *http.Request, id string) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "geojson"
	}

	// Stored geometries are immutable, so encoded representations stay
	// valid until something is deleted from the store.
	cacheKey := id + "|" + format
	if result, ok := encodedCache.Get(cacheKey); ok {
		respond(w, http.StatusOK, result)
		return
	}

	g, err := activeStore.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	out, err := geomio.Encode(g, format)
	if err != nil {
		apiErr := decodeError(err)
		respondError(w, apiErr.status, apiErr.Code, apiErr.Message)
		return
	}

	result := ConvertResult{From: "ewkb", To: format}
	if utf8.Valid(out) {
		result.Data = string(out)
		result.Encoding = "text"
	} else {
		result.Data = base64.StdEncoding.EncodeToString(out)
		result.Encoding = "base64"
	}
	encodedCache.Set(cacheKey, result)
	respond(w, http.StatusOK, result)
}

func deleteGeometryHandler(w http.ResponseWriter, id string) {
	if err := activeStore.Delete(id); err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	encodedCache.Invalidate()
	respond(w, http.StatusOK, map[string]string{"message": "Geometry deleted"})
}

// handlerError carries an HTTP status alongside the API error payload.
type handlerError struct {
	status int
	APIError
}

// loadForStore decodes bytes for storage, detecting the format when the
// request left it blank.
func loadForStore(data []byte, from string, args []string) (geom.Geometry, error) {
	if from == "" {
		return geomio.Decode(data)
	}
	return geomio.DecodeFormat(data, from, args...)
}

// requestBytes decodes the data field of a request according to its encoding.
func requestBytes(data, encoding string) ([]byte, error) {
	switch encoding {
	case "", "text":
		return []byte(data), nil
	case "base64":
		return base64.StdEncoding.DecodeString(data)
	default:
		return nil, errors.NewUnsupportedFormat(encoding)
	}
}

// decodeError maps toolkit errors onto HTTP statuses and stable codes.
func decodeError(err error) *handlerError {
	switch {
	case errors.Is(err, errors.ErrUnsupportedFormat):
		return &handlerError{http.StatusBadRequest, APIError{"UNSUPPORTED_FORMAT", err.Error()}}
	case errors.Is(err, errors.ErrInvalidXML):
		return &handlerError{http.StatusUnprocessableEntity, APIError{"INVALID_XML", err.Error()}}
	case errors.Is(err, errors.ErrInvalidGeometry):
		return &handlerError{http.StatusUnprocessableEntity, APIError{"INVALID_GEOMETRY", err.Error()}}
	case errors.Is(err, errors.ErrCannotParse):
		return &handlerError{http.StatusUnprocessableEntity, APIError{"CANNOT_PARSE", err.Error()}}
	case errors.Is(err, errors.ErrUnsupportedOperation):
		return &handlerError{http.StatusNotImplemented, APIError{"UNSUPPORTED_OPERATION", err.Error()}}
	default:
		return &handlerError{http.StatusInternalServerError, APIError{"INTERNAL_ERROR", err.Error()}}
	}
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
