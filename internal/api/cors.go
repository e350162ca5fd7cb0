package api

import (
	"net/http"
	"strconv"
	"strings"
)

// CORS policy shared by the router middleware and the trigger's OPTIONS answer
var (
	CORSAllowedOrigins = []string{"*"}
	CORSAllowedMethods = []string{"GET", "POST", "OPTIONS"}
	CORSAllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Client-Info", "Apikey", "X-Request-ID"}
	CORSExposedHeaders = []string{"X-Request-ID"}
)

const CORSMaxAge = 300

// setCORSHeaders writes the permissive policy whether or not the request
// looks like a browser preflight.
func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", strings.Join(CORSAllowedMethods, ", "))
	h.Set("Access-Control-Allow-Headers", strings.Join(CORSAllowedHeaders, ", "))
	h.Set("Access-Control-Max-Age", strconv.Itoa(CORSMaxAge))
}
